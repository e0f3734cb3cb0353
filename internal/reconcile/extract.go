package reconcile

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"trendforge/internal/models"
)

var (
	lazyIdeasBlock  = regexp.MustCompile(`(?s)\{.*?"ideas".*?\}`)
	lazyDraftsBlock = regexp.MustCompile(`(?s)\{.*?"drafts".*?\}`)
	lazyFullPost    = regexp.MustCompile(`(?s)\{.*?"plan".*?"drafts".*?"critique".*?\}`)
	oneLevelNesting = regexp.MustCompile(`\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)
)

func decode[T any](s string) (T, error) {
	var v T
	err := json.Unmarshal([]byte(s), &v)
	return v, err
}

func validIdeas(o *models.IdeasOutput) bool {
	return o != nil && len(o.Ideas) > 0
}

func validPost(b *models.PostBundle) bool {
	return b != nil && b.Drafts != nil && len(b.Drafts.Variants) > 0
}

// anchoredTail 寻找以文本末尾的 } 结束、且包含 key 的 JSON 对象
func anchoredTail[T any](key string) func(string) (T, error) {
	needle := `"` + key + `"`
	return func(buf string) (T, error) {
		var zero T
		trimmed := strings.TrimRightFunc(buf, unicode.IsSpace)
		if !strings.HasSuffix(trimmed, "}") {
			return zero, ErrNoMatch
		}
		pairs := pairBraces(trimmed)
		last := len(trimmed) - 1
		for _, p := range pairs {
			if p.close != last {
				continue
			}
			cand := trimmed[p.open:]
			if !strings.Contains(cand, needle) || !json.Valid([]byte(cand)) {
				return zero, ErrNoMatch
			}
			return decode[T](cand)
		}
		return zero, ErrNoMatch
	}
}

// firstMatch 解析正则的第一个匹配
func firstMatch[T any](re *regexp.Regexp) func(string) (T, error) {
	return func(buf string) (T, error) {
		m := re.FindString(buf)
		if m == "" {
			var zero T
			return zero, ErrNoMatch
		}
		return decode[T](m)
	}
}

// lastMatch 解析正则的最后一个匹配
func lastMatch[T any](re *regexp.Regexp) func(string) (T, error) {
	return func(buf string) (T, error) {
		ms := re.FindAllString(buf, -1)
		if len(ms) == 0 {
			var zero T
			return zero, ErrNoMatch
		}
		return decode[T](ms[len(ms)-1])
	}
}

// nestedBlocks 从后往前尝试至多一层嵌套的花括号块
func nestedBlocks[T any](valid func(T) bool) func(string) (T, error) {
	return func(buf string) (T, error) {
		var zero T
		blocks := oneLevelNesting.FindAllString(buf, -1)
		for i := len(blocks) - 1; i >= 0; i-- {
			v, err := decode[T](blocks[i])
			if err == nil && valid(v) {
				return v, nil
			}
		}
		return zero, ErrNoMatch
	}
}

// maxScanCandidates balancedScan 最多尝试解析的对象个数
const maxScanCandidates = 32

// balancedScan 从文本末尾向前逐个 { 起点取配对的对象，只解析包含 key 的候选，
// 接受第一个可解析且有效的对象
func balancedScan[T any](key string, valid func(T) bool) func(string) (T, error) {
	needle := `"` + key + `"`
	return func(buf string) (T, error) {
		var zero T
		hits := indexAll(buf, needle)
		if len(hits) == 0 {
			return zero, ErrNoMatch
		}
		pairs := pairBraces(buf)
		tried := 0
		for i := len(pairs) - 1; i >= 0 && tried < maxScanCandidates; i-- {
			p := pairs[i]
			if !containsHit(hits, p.open, p.close-len(needle)+1) {
				continue
			}
			tried++
			v, err := decode[T](buf[p.open : p.close+1])
			if err == nil && valid(v) {
				return v, nil
			}
		}
		return zero, ErrNoMatch
	}
}

type bracePair struct {
	open, close int
}

// pairBraces 一次正向扫描找出所有配对的花括号，按 { 的位置升序返回。
// 只在某个 { 之内识别字符串字面量，字面量中的括号不计；多余的 } 被忽略。
func pairBraces(buf string) []bracePair {
	var pairs []bracePair
	var stack []int
	inString, escaped := false, false
	for i := 0; i < len(buf); i++ {
		c := buf[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = len(stack) > 0
		case '{':
			stack = append(stack, i)
		case '}':
			if len(stack) == 0 {
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			pairs = append(pairs, bracePair{open: open, close: i})
		}
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].open < pairs[b].open })
	return pairs
}

// indexAll 返回 needle 在 buf 中所有出现位置，升序
func indexAll(buf, needle string) []int {
	var out []int
	for off := 0; ; {
		i := strings.Index(buf[off:], needle)
		if i < 0 {
			return out
		}
		out = append(out, off+i)
		off += i + 1
	}
}

// containsHit hits 中是否有落在 [from, to) 内的位置
func containsHit(hits []int, from, to int) bool {
	i := sort.SearchInts(hits, from)
	return i < len(hits) && hits[i] < to
}

// IdeaStrategies 灵感模式的提取策略，从最精确到最宽松
func IdeaStrategies() []Strategy[*models.IdeasOutput] {
	return []Strategy[*models.IdeasOutput]{
		{Name: "anchored_tail", Extract: anchoredTail[*models.IdeasOutput]("ideas")},
		{Name: "last_ideas_block", Extract: lastMatch[*models.IdeasOutput](lazyIdeasBlock)},
		{Name: "nested_blocks", Extract: nestedBlocks(validIdeas)},
		{Name: "balanced_scan", Extract: balancedScan("ideas", validIdeas)},
	}
}

// PostStrategies 帖子模式的提取策略，从最精确到最宽松
func PostStrategies() []Strategy[*models.PostBundle] {
	return []Strategy[*models.PostBundle]{
		{Name: "anchored_tail", Extract: anchoredTail[*models.PostBundle]("drafts")},
		{Name: "plan_drafts_critique", Extract: firstMatch[*models.PostBundle](lazyFullPost)},
		{Name: "last_drafts_block", Extract: lastMatch[*models.PostBundle](lazyDraftsBlock)},
		{Name: "nested_blocks", Extract: nestedBlocks(validPost)},
		{Name: "balanced_scan", Extract: balancedScan("drafts", validPost)},
	}
}

// ExtractIdeas 提取灵感输出
func ExtractIdeas(buf string) (*models.IdeasOutput, string, error) {
	return FirstValid(buf, IdeaStrategies(), validIdeas)
}

// ExtractPost 提取帖子输出
func ExtractPost(buf string) (*models.PostBundle, string, error) {
	return FirstValid(buf, PostStrategies(), validPost)
}

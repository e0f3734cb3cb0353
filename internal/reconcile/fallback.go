package reconcile

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	labeledHook     = regexp.MustCompile(`(?is)hook[:\-]\s*(.*?)(?:\n\n|\*\*|post|body)`)
	labeledBody     = regexp.MustCompile(`(?is)(?:POST BODY|Body|Content)[:\-]\s*(.*?)(?:\n\n|\*\*|CTA|$)`)
	labeledHashtags = regexp.MustCompile(`(?i)(?:HASHTAGS|#)[:\-]?\s*(#[\w\s#]+)`)
)

// 出现这些标记说明模型已经写到成稿阶段，即使仍在流式输出也可以展示
var completionMarkers = []string{"critique", "final", "POST BODY", "Writer", "Critic"}

const (
	minHookLen = 20
	minBodyLen = 50
)

// textPost 按 "HOOK:" / "Body:" / "HASHTAGS" 等标签从纯文本中抽取帖子
func textPost(buf string) (*PostView, bool) {
	hook := submatch(labeledHook, buf)
	body := submatch(labeledBody, buf)
	if utf8.RuneCountInString(hook) <= minHookLen && utf8.RuneCountInString(body) <= minBodyLen {
		return nil, false
	}

	content := hook
	switch {
	case hook != "" && body != "":
		content = hook + "\n\n" + body
	case hook == "":
		content = body
	}

	var hashtags []string
	for _, f := range strings.Fields(submatch(labeledHashtags, buf)) {
		if strings.HasPrefix(f, "#") {
			hashtags = append(hashtags, f)
		}
	}

	return &PostView{Content: content, Hashtags: hashtags}, true
}

func submatch(re *regexp.Regexp, buf string) string {
	m := re.FindStringSubmatch(buf)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func hasCompletionMarker(buf string) bool {
	for _, m := range completionMarkers {
		if strings.Contains(buf, m) {
			return true
		}
	}
	return false
}

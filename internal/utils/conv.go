package utils

import (
	"strconv"
	"strings"
)

// QueryInt 解析查询参数中的整数，非法或为空时返回 def
func QueryInt(s string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return i
}

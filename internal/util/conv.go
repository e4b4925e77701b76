package util

import (
	"strconv"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// FormatUint 与 MustParseUint 对应的规范化字符串表示，
// 保证答案映射中 question_id 两侧比较口径一致
func FormatUint(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

// Package textutil 提供了消息文本的规范化与大小写处理工具。
package textutil

import (
	"strings"
	"unicode"
)

// 法语字母表中会出现的带重音拉丁字母。
const accentedLetters = "àâäéèêëïîôùûüÿç"

// Normalize 将文本转为小写，移除所有既不是拉丁字母（含法语重音字母）、
// 数字、空白也不是连字符的字符，并去掉首尾空白。
// 纯函数：空字符串输入返回空字符串，重复调用结果不变。
func Normalize(text string) string {
	lowered := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			b.WriteRune(r)
		case strings.ContainsRune(accentedLetters, r):
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// TitleCase 将每个以空白分隔的单词首字母大写，其余部分小写。
// 用于把提取出的城市名转为展示形式，例如 "la rochelle" -> "La Rochelle"。
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

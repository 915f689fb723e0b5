package service

import "strconv"

// IdentifierKind 描述页面标识串的分类结果。
type IdentifierKind int

const (
	// IdentifierDefault 命中所有者的默认页。
	IdentifierDefault IdentifierKind = iota
	// IdentifierIndex 按整数序号查找页面。
	IdentifierIndex
	// IdentifierSlug 按 slug 查找页面。
	IdentifierSlug
)

// PageIdentifier 是 ParseIdentifier 的分类结果。
type PageIdentifier struct {
	Kind  IdentifierKind
	Index int
	Slug  string
}

// ParseIdentifier 将原始页面标识串分类为 default / index / slug 三种查找策略。
// 空串、"default" 与 "0" 均视为默认页；纯数字串视为序号；其余按 slug 处理。
// 纯分类逻辑，无 I/O，对任意输入都有确定结果。
func ParseIdentifier(raw string) PageIdentifier {
	if raw == "" || raw == "default" || raw == "0" {
		return PageIdentifier{Kind: IdentifierDefault}
	}

	if isDigits(raw) {
		parsed, err := strconv.Atoi(raw)
		if err == nil {
			return PageIdentifier{Kind: IdentifierIndex, Index: parsed}
		}
	}

	return PageIdentifier{Kind: IdentifierSlug, Slug: raw}
}

func isDigits(raw string) bool {
	if raw == "" {
		return false
	}
	for _, ch := range raw {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

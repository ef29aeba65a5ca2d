// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer はユーザー入力のテキストフィールド（レストラン名、
// メニュー項目名、説明文など）からHTMLタグを除去し、
// 保存データに実行可能なマークアップが混入することを防ぐ。
// bluemondayのStrictPolicy（全タグ除去）を使用する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer はプレーンテキストフィールドのサニタイズ機能のインターフェース。
// 保存前のユーザー入力に対して使用する。
type TextSanitizer interface {
	// SanitizeField は入力からHTMLタグを全て除去し、前後の空白を取り除いて返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeField(input string) string
}

// textSanitizer はTextSanitizerの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
// ポリシーはStrictPolicy: 許可タグなし、全てのHTML要素と属性を除去する。
func NewTextSanitizer() TextSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizeField は入力からHTMLタグを全て除去し、前後の空白を取り除いて返す。
func (s *textSanitizer) SanitizeField(input string) string {
	return strings.TrimSpace(s.policy.Sanitize(input))
}

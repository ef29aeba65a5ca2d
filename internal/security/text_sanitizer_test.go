package security

import "testing"

func TestSanitizeField_PlainTextPassesThrough(t *testing.T) {
	s := NewTextSanitizer()

	got := s.SanitizeField("そば処 やぶ")
	if got != "そば処 やぶ" {
		t.Errorf("SanitizeField = %q, want %q", got, "そば処 やぶ")
	}
}

func TestSanitizeField_StripsScriptTags(t *testing.T) {
	s := NewTextSanitizer()

	got := s.SanitizeField(`ざるそば<script>alert(1)</script>`)
	if got != "ざるそば" {
		t.Errorf("SanitizeField = %q, want %q", got, "ざるそば")
	}
}

func TestSanitizeField_StripsAllHTMLTags(t *testing.T) {
	s := NewTextSanitizer()

	got := s.SanitizeField(`<b>天ぷら</b><img src="x" onerror="alert(1)">そば`)
	if got != "天ぷらそば" {
		t.Errorf("SanitizeField = %q, want %q", got, "天ぷらそば")
	}
}

func TestSanitizeField_TrimsWhitespace(t *testing.T) {
	s := NewTextSanitizer()

	got := s.SanitizeField("  900円  ")
	if got != "900円" {
		t.Errorf("SanitizeField = %q, want %q", got, "900円")
	}
}

// 同一入力に対して常に同一出力を返す（冪等）
func TestSanitizeField_Idempotent(t *testing.T) {
	s := NewTextSanitizer()

	first := s.SanitizeField(`挽きたて<script>x</script>の香り`)
	second := s.SanitizeField(first)
	if first != second {
		t.Errorf("not idempotent: first = %q, second = %q", first, second)
	}
}

package quality

import (
	"reflect"
	"testing"
)

func TestCheckCompliantDraft(t *testing.T) {
	report := Check("短い投稿文です", []string{"絶対", "必ず"}, 280)

	if report.CharCount != 7 {
		t.Fatalf("expected rune count 7, got %d", report.CharCount)
	}
	if !report.Compliant {
		t.Fatalf("expected compliant report: %+v", report)
	}
	if len(report.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", report.Warnings)
	}
	if len(report.BannedTermsFound) != 0 {
		t.Fatalf("expected no banned terms, got %v", report.BannedTermsFound)
	}
}

func TestCheckCharCountIsRunes(t *testing.T) {
	// 5 runes, 15 bytes in UTF-8.
	report := Check("あいうえお", nil, 280)
	if report.CharCount != 5 {
		t.Fatalf("expected rune-based count 5, got %d", report.CharCount)
	}
}

func TestCheckOverflowYieldsOneWarning(t *testing.T) {
	report := Check("あいうえおかきくけこ", nil, 5)

	if report.Compliant {
		t.Fatalf("expected non-compliant report")
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %v", report.Warnings)
	}
	if report.Warnings[0] != "文字数超過: 10/5" {
		t.Fatalf("unexpected warning text: %q", report.Warnings[0])
	}
}

func TestCheckBannedTermsInListOrder(t *testing.T) {
	text := "このサービスは必ず成果が出ます。絶対おすすめです。"
	report := Check(text, []string{"絶対", "無料", "必ず"}, 280)

	if report.Compliant {
		t.Fatalf("expected non-compliant report")
	}
	if !reflect.DeepEqual(report.BannedTermsFound, []string{"絶対", "必ず"}) {
		t.Fatalf("expected list-order matches, got %v", report.BannedTermsFound)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("expected one warning for banned terms, got %v", report.Warnings)
	}
}

func TestCheckNestedTermReportedSeparately(t *testing.T) {
	report := Check("全額返金保証付き", []string{"返金保証", "保証"}, 280)

	if !reflect.DeepEqual(report.BannedTermsFound, []string{"返金保証", "保証"}) {
		t.Fatalf("nested term should still match on its own, got %v", report.BannedTermsFound)
	}
}

func TestCheckCaseSensitiveMatching(t *testing.T) {
	report := Check("This is FREE stuff", []string{"free"}, 280)
	if len(report.BannedTermsFound) != 0 {
		t.Fatalf("matching must be case-sensitive, got %v", report.BannedTermsFound)
	}
}

func TestCheckBothViolations(t *testing.T) {
	report := Check("絶対に見てください", nil, 3)
	report2 := Check("絶対に見てください", []string{"絶対"}, 3)

	if len(report.Warnings) != 1 {
		t.Fatalf("length-only violation should yield one warning, got %v", report.Warnings)
	}
	if len(report2.Warnings) != 2 {
		t.Fatalf("two violated conditions should yield two warnings, got %v", report2.Warnings)
	}
}

func TestCheckDeterministic(t *testing.T) {
	text := "絶対に成果が出る投稿文"
	banned := []string{"絶対", "成果"}

	first := Check(text, banned, 10)
	second := Check(text, banned, 10)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same inputs must produce identical reports:\n%+v\n%+v", first, second)
	}
}

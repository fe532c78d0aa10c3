package card

import "testing"

func TestUpdateShallowMerge(t *testing.T) {
	s := NewState()
	theme := "theme-dark"
	size := 24.0
	s.Update(Patch{Theme: &theme, FontSize: &size})

	if s.Theme != "theme-dark" {
		t.Fatalf("expected theme-dark, got %s", s.Theme)
	}
	if s.FontSize != 24 {
		t.Fatalf("expected fontSize 24, got %v", s.FontSize)
	}
	// 未出现在 patch 里的字段保持默认值
	if s.Layout != LayoutHorizontal {
		t.Fatalf("layout changed unexpectedly: %s", s.Layout)
	}
	if s.CardWidth != 400 {
		t.Fatalf("cardWidth changed unexpectedly: %v", s.CardWidth)
	}
	if len(s.ExportFormats) != 1 || s.ExportFormats[0] != "png" {
		t.Fatalf("exportFormats changed unexpectedly: %v", s.ExportFormats)
	}
}

func TestUpdateExportFormatsCopied(t *testing.T) {
	s := NewState()
	src := []string{"png", "webp"}
	s.Update(Patch{ExportFormats: src})
	src[0] = "svg"
	if s.ExportFormats[0] != "png" {
		t.Fatal("Update must copy the formats slice")
	}
}

func TestResolveFormats(t *testing.T) {
	s := NewState()

	got, err := ResolveFormats(nil, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "png" {
		t.Fatalf("expected fallback [png], got %v", got)
	}

	got, err = ResolveFormats([]string{"jpeg", "svg"}, s)
	if err != nil || len(got) != 2 {
		t.Fatalf("unexpected result: %v %v", got, err)
	}

	s.ExportFormats = nil
	if _, err := ResolveFormats(nil, s); err == nil {
		t.Fatal("expected ErrNoFormats when both selections are empty")
	}
}

func TestNormalizeFormat(t *testing.T) {
	cases := []struct {
		in, name, ext string
	}{
		{"png", "png", "png"},
		{"jpeg", "jpeg", "jpg"},
		{"jpg", "jpeg", "jpg"},
		{"webp", "webp", "webp"},
		{"svg", "svg", "svg"},
		{"bmp", "png", "png"}, // 未知格式回落到 png
	}
	for _, c := range cases {
		spec := NormalizeFormat(c.in)
		if spec.Name != c.name || spec.Extension != c.ext {
			t.Fatalf("%q: got %s/%s, want %s/%s", c.in, spec.Name, spec.Extension, c.name, c.ext)
		}
	}
	if NormalizeFormat("jpeg").Quality != 0.92 {
		t.Fatal("jpeg quality should be 0.92")
	}
	if NormalizeFormat("webp").Quality != 0.9 {
		t.Fatal("webp quality should be 0.9")
	}
}

func TestDocumentClone(t *testing.T) {
	doc := NewDocument(Content{Quote: "读书破万卷", Seal: "藏"}, NewState())
	clone := doc.Clone()

	orig := doc.GetElementByID(CardID)
	copied := clone.GetElementByID(CardID)
	if copied == nil || copied == orig {
		t.Fatal("clone must contain an independent card element")
	}

	copied.Style.Set("transform", "none")
	if orig.Style.Get("transform") != "" {
		t.Fatal("mutating the clone leaked into the original")
	}
}

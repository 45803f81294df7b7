package edgetts

import (
	"strings"
	"testing"
)

func TestVoiceLanguage(t *testing.T) {
	cases := []struct {
		voice   string
		wantTag string
		wantErr bool
	}{
		{"zh-CN-XiaoxiaoNeural", "zh-CN", false},
		{"en-US-AriaNeural", "en-US", false},
		{"zh-CN-liaoning-XiaobeiNeural", "zh-CN", false},
		{"  ja-JP-NanamiNeural  ", "ja-JP", false},
		{"", "", true},
		{"AriaNeural", "", true},
		{"en-US", "", true},
		{"12-34-FooNeural", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.voice, func(t *testing.T) {
			tag, err := VoiceLanguage(tc.voice)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.voice)
				}
				return
			}
			if err != nil {
				t.Fatalf("VoiceLanguage(%q): %v", tc.voice, err)
			}
			if got := tag.String(); got != tc.wantTag {
				t.Fatalf("tag = %q, want %q", got, tc.wantTag)
			}
		})
	}
}

func TestValidateModifier(t *testing.T) {
	valid := []string{"+0%", "-10%", "+25%", "-100%"}
	for _, v := range valid {
		if err := ValidateModifier(v); err != nil {
			t.Fatalf("ValidateModifier(%q): %v", v, err)
		}
	}
	invalid := []string{"", "0%", "+5", "fast", "%10+", "+ 5%"}
	for _, v := range invalid {
		err := ValidateModifier(v)
		if err == nil {
			t.Fatalf("expected error for %q", v)
		}
		if !strings.Contains(err.Error(), "signed percentage") {
			t.Fatalf("unexpected error for %q: %v", v, err)
		}
	}
}

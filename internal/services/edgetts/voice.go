package edgetts

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// modifierPattern matches prosody modifiers accepted by edge-tts, a signed
// integer percentage such as "+0%" or "-10%".
var modifierPattern = regexp.MustCompile(`^[+-][0-9]+%$`)

// VoiceLanguage extracts the BCP 47 language tag embedded in an edge-tts
// voice name such as "zh-CN-XiaoxiaoNeural" or "zh-CN-liaoning-XiaobeiNeural".
func VoiceLanguage(voice string) (language.Tag, error) {
	parts := strings.Split(strings.TrimSpace(voice), "-")
	if len(parts) < 3 {
		return language.Und, fmt.Errorf("voice %q must be of the form lang-REGION-Name", voice)
	}
	tag, err := language.Parse(parts[0] + "-" + parts[1])
	if err != nil {
		return language.Und, fmt.Errorf("voice %q carries no valid language tag: %w", voice, err)
	}
	return tag, nil
}

// ValidateVoice checks that a voice name is well formed.
func ValidateVoice(voice string) error {
	_, err := VoiceLanguage(voice)
	return err
}

// ValidateModifier checks a prosody modifier such as "+0%" or "-10%".
func ValidateModifier(value string) error {
	if !modifierPattern.MatchString(value) {
		return fmt.Errorf("modifier %q must be a signed percentage such as +0%% or -10%%", value)
	}
	return nil
}

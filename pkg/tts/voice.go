// ABOUTME: Closed voice and style enumerations with their lookup tables
// ABOUTME: Builds the speech and rewrite prompts sent to the service
package tts

import (
	"fmt"
)

// Voice identifies a speaker voice
type Voice string

const (
	VoiceKarim  Voice = "karim"
	VoiceBakr   Voice = "bakr"
	VoiceShadi  Voice = "shadi"
	VoiceFaris  Voice = "faris"
	VoiceZuhair Voice = "zuhair"
)

type voiceInfo struct {
	name    string
	apiName string
}

var voiceTable = map[Voice]voiceInfo{
	VoiceKarim:  {name: "كريم", apiName: "Kore"},
	VoiceBakr:   {name: "بكر", apiName: "Puck"},
	VoiceShadi:  {name: "شادي", apiName: "Charon"},
	VoiceFaris:  {name: "فارس", apiName: "Fenrir"},
	VoiceZuhair: {name: "زهير", apiName: "Zephyr"},
}

// Voices lists every voice in display order
func Voices() []Voice {
	return []Voice{VoiceKarim, VoiceBakr, VoiceShadi, VoiceFaris, VoiceZuhair}
}

// ParseVoice looks a voice up by id
func ParseVoice(id string) (Voice, error) {
	v := Voice(id)
	if _, ok := voiceTable[v]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownVoice, id)
	}
	return v, nil
}

// Name returns the display name
func (v Voice) Name() string {
	return voiceTable[v].name
}

// APIName returns the service's prebuilt voice name
func (v Voice) APIName() string {
	return voiceTable[v].apiName
}

// Style identifies a delivery style
type Style string

const (
	StyleNatural       Style = "natural"
	StyleDocumentary   Style = "documentary"
	StyleNews          Style = "news"
	StyleScientific    Style = "scientific"
	StyleSuspense      Style = "suspense"
	StyleHistorical    Style = "historical"
	StyleInvestigative Style = "investigative"
)

type styleInfo struct {
	name    string
	rewrite string
}

var styleTable = map[Style]styleInfo{
	StyleNatural:       {name: "طبيعي", rewrite: "بأسلوب طبيعي وبسيط"},
	StyleDocumentary:   {name: "راوي وثائقي", rewrite: "بأسلوب راوي أفلام وثائقية فخم"},
	StyleNews:          {name: "مذيع أخبار", rewrite: "بأسلوب مذيع أخبار محترف ورسمي"},
	StyleScientific:    {name: "مقدم علمي", rewrite: "بأسلوب مقدم برامج علمية مبسط ومفهوم"},
	StyleSuspense:      {name: "غامض/تشويقي", rewrite: "بأسلوب غامض ومثير للتشويق"},
	StyleHistorical:    {name: "راوي تاريخي", rewrite: "بأسلوب راوي قصص تاريخية ملهم"},
	StyleInvestigative: {name: "كشف حقائق/استقصائي", rewrite: "بأسلوب استقصائي يكشف الحقائق"},
}

// Styles lists every style in display order
func Styles() []Style {
	return []Style{
		StyleNatural, StyleDocumentary, StyleNews, StyleScientific,
		StyleSuspense, StyleHistorical, StyleInvestigative,
	}
}

// ParseStyle looks a style up by id
func ParseStyle(id string) (Style, error) {
	s := Style(id)
	if _, ok := styleTable[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, id)
	}
	return s, nil
}

// Name returns the display name
func (s Style) Name() string {
	return styleTable[s].name
}

// SpeechPrompt prefixes text with the style instruction
func SpeechPrompt(text string, style Style) string {
	name := style.Name()
	if name == "" {
		name = StyleNatural.Name()
	}
	return fmt.Sprintf("قل بأسلوب %s: %s", name, text)
}

// RewritePrompt asks the model to restate text in style and nothing else
func RewritePrompt(text string, style Style) string {
	desc := styleTable[style].rewrite
	if desc == "" {
		desc = styleTable[StyleNatural].rewrite
	}
	return fmt.Sprintf("أعد صياغة النص التالي %s. يجب أن يكون الناتج هو النص المعاد صياغته فقط، بدون أي مقدمات أو ملاحظات إضافية.\n\nالنص الأصلي:\n\"%s\"", desc, text)
}

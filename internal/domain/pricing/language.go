package pricing

import (
	"regexp"
	"strings"
)

// LanguageKind says which language annotation a product name accepts.
type LanguageKind int

const (
	LanguageNone LanguageKind = iota
	// LanguagePair products take a "source→target" pair, e.g. 日本語→英語.
	LanguagePair
	// LanguageSingle products take one target language.
	LanguageSingle
)

var (
	pairKeywords   = []string{"字幕翻訳", "文書翻訳", "通訳", "同時通訳", "逐次通訳"}
	singleKeywords = []string{"翻訳準備費", "言語監修", "編集者", "文字起こし", "SRT作成", "ナレーター派遣", "編集者派遣"}
)

// LanguagePairs are the preset pairs offered for LanguagePair products.
var LanguagePairs = []string{
	"日本語→英語", "日本語→中国語(簡体字)", "日本語→中国語(繁体字)", "日本語→韓国語",
	"日本語→タイ語", "日本語→ベトナム語", "日本語→フランス語", "日本語→ドイツ語", "日本語→スペイン語",
	"英語→日本語", "中国語(簡体字)→日本語", "中国語(繁体字)→日本語", "韓国語→日本語",
	"タイ語→日本語", "ベトナム語→日本語", "フランス語→日本語", "ドイツ語→日本語", "スペイン語→日本語",
}

// SingleLanguages are the preset targets offered for LanguageSingle products.
var SingleLanguages = []string{
	"英語", "中国語(簡体字)", "中国語(繁体字)", "韓国語", "タイ語", "ベトナム語", "フランス語",
	"ドイツ語", "スペイン語", "ポルトガル語", "イタリア語", "ロシア語", "アラビア語",
	"ヒンディー語", "インドネシア語", "マレー語",
}

var (
	bracketPattern    = regexp.MustCompile(`（(.+?)）`)
	trailingBracket   = regexp.MustCompile(`^(.+?)（(.+?)）$`)
	pairPattern       = regexp.MustCompile(`^.+→.+$`)
	singleLangPattern = regexp.MustCompile(`^(英語|中国語|韓国語|タイ語|ベトナム語|フランス語|ドイツ語|スペイン語|ポルトガル語|イタリア語|ロシア語|アラビア語|ヒンディー語|インドネシア語|マレー語|日本語)`)
)

// HasLanguage reports whether name already carries a language annotation
// in full-width brackets.
func HasLanguage(name string) bool {
	for _, m := range bracketPattern.FindAllStringSubmatch(name, -1) {
		if pairPattern.MatchString(m[1]) || singleLangPattern.MatchString(m[1]) {
			return true
		}
	}
	return false
}

// LanguageKindOf classifies a product name by keyword. Names that already
// carry a language are LanguageNone.
func LanguageKindOf(name string) LanguageKind {
	if HasLanguage(name) {
		return LanguageNone
	}
	if containsAny(name, pairKeywords) {
		return LanguagePair
	}
	if containsAny(name, singleKeywords) {
		return LanguageSingle
	}
	return LanguageNone
}

// WithLanguage appends "（lang）" to base. An empty lang leaves base as is.
func WithLanguage(base, lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return base
	}
	return base + "（" + lang + "）"
}

// SplitLanguage is the inverse of WithLanguage. Any trailing bracket is read
// as the language, except a percentage on a fee line.
func SplitLanguage(name string) (base, lang string) {
	if _, _, ok := ParseFeeName(name); ok {
		return name, ""
	}
	m := trailingBracket.FindStringSubmatch(name)
	if m == nil {
		return name, ""
	}
	return m[1], m[2]
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

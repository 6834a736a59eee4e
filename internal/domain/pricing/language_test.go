package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageKindOf(t *testing.T) {
	cases := []struct {
		name string
		want LanguageKind
	}{
		{"字幕翻訳", LanguagePair},
		{"同時通訳（半日）", LanguagePair},
		{"字幕翻訳（日本語→英語）", LanguageNone},
		{"文字起こし", LanguageSingle},
		{"ナレーター派遣", LanguageSingle},
		{"文字起こし（英語）", LanguageNone},
		{"動画編集", LanguageNone},
		{"管理費（10%）", LanguageNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LanguageKindOf(tc.name))
		})
	}
}

func TestHasLanguage(t *testing.T) {
	assert.True(t, HasLanguage("字幕翻訳（日本語→英語）"))
	assert.True(t, HasLanguage("言語監修（中国語(簡体字)）"))
	assert.True(t, HasLanguage("通訳（ドイツ語→スワヒリ語）"))
	assert.False(t, HasLanguage("同時通訳（半日）"))
	assert.False(t, HasLanguage("字幕翻訳"))
}

func TestWithAndSplitLanguage(t *testing.T) {
	name := WithLanguage("字幕翻訳", "日本語→英語")
	assert.Equal(t, "字幕翻訳（日本語→英語）", name)
	assert.Equal(t, "字幕翻訳", WithLanguage("字幕翻訳", "  "))

	base, lang := SplitLanguage(name)
	assert.Equal(t, "字幕翻訳", base)
	assert.Equal(t, "日本語→英語", lang)

	base, lang = SplitLanguage("文字起こし（スワヒリ語）")
	assert.Equal(t, "文字起こし", base)
	assert.Equal(t, "スワヒリ語", lang)

	base, lang = SplitLanguage("管理費（10%）")
	assert.Equal(t, "管理費（10%）", base)
	assert.Empty(t, lang)

	base, lang = SplitLanguage("字幕翻訳")
	assert.Equal(t, "字幕翻訳", base)
	assert.Empty(t, lang)
}

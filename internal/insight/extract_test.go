package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_Empty(t *testing.T) {
	e := NewExtractor()

	assert.Empty(t, e.ExtractOptional(nil))
	assert.NotNil(t, e.ExtractOptional(nil))
	assert.Empty(t, e.Extract(""))
	assert.Empty(t, e.Extract("   \n\t "))
}

func TestExtract_Lines(t *testing.T) {
	got := Extract("- Water crops\n- Watch for pests")
	assert.Equal(t, []string{"Water crops", "Watch for pests"}, got)
}

func TestExtract_LineMarkersAndEndings(t *testing.T) {
	text := "Summary for Maize fields:\r\n\r\n• Low rainfall expected today.\r\n  -- Check irrigation\n\n\n-\n"
	got := Extract(text)
	assert.Equal(t, []string{
		"Summary for Maize fields:",
		"Low rainfall expected today.",
		"Check irrigation",
	}, got)
}

func TestExtract_LinesKeepInnerHyphens(t *testing.T) {
	got := Extract("- Use drought-tolerant seed\n- Re-check soil - moisture")
	assert.Equal(t, []string{"Use drought-tolerant seed", "Re-check soil - moisture"}, got)
}

func TestExtract_SentenceFallback(t *testing.T) {
	got := Extract("Water crops today. Watch for pests soon.")
	assert.Equal(t, []string{"Water crops today.", "Watch for pests soon."}, got)
}

func TestExtract_SentenceFallbackPunctuation(t *testing.T) {
	got := Extract("Heavy rain now! Delay spraying?  Yes.Really")
	assert.Equal(t, []string{"Heavy rain now!", "Delay spraying?", "Yes.Really"}, got)
}

func TestExtract_StripsPromo(t *testing.T) {
	got := Extract("Great advice.\n\nUpgrade with a Gemini API key for more.")
	assert.Equal(t, []string{"Great advice."}, got)

	got = Extract("- Irrigate lightly\n- Scout for pests\nupgrade WITH a gemini api key to unlock more\n- ignored")
	assert.Equal(t, []string{"Irrigate lightly", "Scout for pests"}, got)
}

func TestExtract_PromoOnly(t *testing.T) {
	assert.Empty(t, Extract("Upgrade with a Gemini API key for crop-specific insights."))
	assert.Empty(t, Extract("  \nUpgrade with a Gemini API key"))
}

func TestExtract_Idempotent(t *testing.T) {
	text := "Summary for Maize fields:\n- Weather looks favorable for routine field work today."
	assert.Equal(t, Extract(text), Extract(text))
}

func TestExtractor_CustomPromoPhrase(t *testing.T) {
	e := NewExtractor(WithPromoPhrase("Subscribe now"))
	got := e.Extract("Mulch young plants. Subscribe now for daily tips.")
	assert.Equal(t, []string{"Mulch young plants."}, got)

	// The default phrase is no longer stripped.
	got = e.Extract("Mulch young plants. Upgrade with a Gemini API key.")
	assert.Equal(t, []string{"Mulch young plants.", "Upgrade with a Gemini API key."}, got)
}

type fixedStrategy struct{ lines []string }

func (fixedStrategy) Name() string { return "fixed" }

func (f fixedStrategy) Split(string) []string { return f.lines }

func TestExtractor_StrategiesRunInOrder(t *testing.T) {
	e := NewExtractor(WithStrategies(fixedStrategy{}, fixedStrategy{lines: []string{"second"}}, SentenceStrategy{}))
	assert.Equal(t, []string{"second"}, e.Extract("First. Second."))

	e = NewExtractor(WithStrategies(fixedStrategy{}))
	assert.Empty(t, e.Extract("anything"))
}

func TestLineStrategy_RequiresNewlines(t *testing.T) {
	assert.Nil(t, LineStrategy{}.Split("- single line"))
	assert.Nil(t, LineStrategy{}.Split("-\n•\n  "))

	lines := LineStrategy{}.Split("a\r\nb")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"a", "b"}, lines)
}

func TestSentenceStrategy_NoTerminalPunctuation(t *testing.T) {
	assert.Equal(t, []string{"keep fields weeded"}, SentenceStrategy{}.Split("keep fields weeded"))
	assert.Nil(t, SentenceStrategy{}.Split("   "))
}

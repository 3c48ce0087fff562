package strategist

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/vectorclash/vectorclash/internal/core/intent"
)

// The strategist replies with free-form text: an optional <thinking> block
// followed by a JSON command. Responses are frequently sloppy (prose around
// the JSON, several candidate objects, trailing commas), so extraction is
// deliberately forgiving and the last parseable object wins.
var (
	thinkingRe  = regexp.MustCompile(`(?s)<thinking>(.*?)</thinking>`)
	trailingRe  = regexp.MustCompile(`,\s*([}\]])`)
	objectRe    = regexp.MustCompile(`\{[^{}]*\}`)
	dxFallback  = regexp.MustCompile(`"dx"\s*:\s*([+-]?\d+\.?\d*)`)
	dyFallback  = regexp.MustCompile(`"dy"\s*:\s*([+-]?\d+\.?\d*)`)
	fireRe      = regexp.MustCompile(`(?i)"shoot"\s*:\s*(true|false)`)
)

// rawDecision uses pointers so "field absent" is distinguishable from zero.
type rawDecision struct {
	DX    *float64 `json:"dx"`
	DY    *float64 `json:"dy"`
	Shoot *bool    `json:"shoot"`
}

// ParseDecision extracts the strategic decision and the thinking commentary
// from a raw response. ok is false when no decision could be recovered at
// all; thinking may still be non-empty in that case.
func ParseDecision(text string) (d intent.Decision, thinking string, ok bool) {
	if m := thinkingRe.FindStringSubmatch(text); m != nil {
		thinking = strings.TrimSpace(m[1])
	}

	jsonText := thinkingRe.ReplaceAllString(text, "")
	jsonText = trailingRe.ReplaceAllString(jsonText, "$1")

	candidates := objectRe.FindAllString(jsonText, -1)
	for i := len(candidates) - 1; i >= 0; i-- {
		var raw rawDecision
		if err := json.Unmarshal([]byte(candidates[i]), &raw); err != nil {
			continue
		}
		if raw.DX == nil && raw.DY == nil && raw.Shoot == nil {
			continue
		}
		if raw.DX != nil {
			d.DX = *raw.DX
		}
		if raw.DY != nil {
			d.DY = *raw.DY
		}
		if raw.Shoot != nil {
			d.Fire = *raw.Shoot
		}
		return d, thinking, true
	}

	// Last resort: pull bare numbers out of the text.
	dxm := dxFallback.FindStringSubmatch(jsonText)
	dym := dyFallback.FindStringSubmatch(jsonText)
	if dxm == nil && dym == nil {
		return intent.Decision{}, thinking, false
	}
	if dxm != nil {
		d.DX, _ = strconv.ParseFloat(dxm[1], 64)
	}
	if dym != nil {
		d.DY, _ = strconv.ParseFloat(dym[1], 64)
	}
	if fm := fireRe.FindStringSubmatch(jsonText); fm != nil {
		d.Fire = strings.EqualFold(fm[1], "true")
	}
	return d, thinking, true
}

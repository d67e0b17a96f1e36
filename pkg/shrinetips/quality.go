package shrinetips

// SplitQuality splits a "$D" tint prefix off a value template. ok is false
// when the template carries no prefix, in which case text is the template
// unchanged and level is 0.
//
//	SplitQuality("$3Boost") // 3, "Boost", true
//	SplitQuality("Boost")   // 0, "Boost", false
func SplitQuality(template string) (level int, text string, ok bool) {
	if len(template) < 2 || template[0] != '$' || template[1] < '0' || template[1] > '9' {
		return 0, template, false
	}
	return int(template[1] - '0'), template[2:], true
}

package cert

import "strings"

// MaxSkills caps how many competency lines the certificate lists.
const MaxSkills = 5

// DefaultSkill is rendered when a course has no usable skills text.
const DefaultSkill = "Conclusão integral do conteúdo programático"

// ParseSkills splits a course's period-delimited skills text into competency
// lines: trim each segment, drop empties, keep at most MaxSkills. Existing
// course data depends on this exact rule, so it must not change.
func ParseSkills(skillsText string) []string {
	out := []string{}
	for _, seg := range strings.Split(skillsText, ".") {
		s := strings.TrimSpace(seg)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == MaxSkills {
			break
		}
	}
	if len(out) == 0 {
		return []string{DefaultSkill}
	}
	return out
}

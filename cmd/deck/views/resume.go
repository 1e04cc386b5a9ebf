package views

import (
	"strings"

	"careerdeck/cmd/deck/ui"
	"careerdeck/internal/types"
)

// RenderResume renders a generated resume as plain sections. Empty
// sections are left out.
func RenderResume(s ui.Styles, r types.Resume, width int) string {
	var sb strings.Builder
	section := func(title string) {
		sb.WriteString("\n" + s.Bold.Render(strings.ToUpper(title)) + "\n")
	}

	name := r.PersonalDetails.Name
	if name == "" {
		name = "User Name"
	}
	sb.WriteString(s.Title.Render(name) + "\n")
	var contact []string
	for _, c := range []string{r.PersonalDetails.Email, r.PersonalDetails.Phone} {
		if c != "" {
			contact = append(contact, c)
		}
	}
	if len(contact) > 0 {
		sb.WriteString(s.Muted.Render(strings.Join(contact, " • ")) + "\n")
	}

	if r.Summary != "" {
		section("Professional Summary")
		sb.WriteString(wrap(r.Summary, width, "") + "\n")
	}
	if len(r.Projects) > 0 {
		section("Key Projects")
		for _, p := range r.Projects {
			sb.WriteString(s.Body.Bold(true).Render(p.Title) + "\n")
			for _, b := range p.Bullets {
				sb.WriteString(wrap("• "+b, max(width-2, 10), "  ") + "\n")
			}
		}
	}
	if len(r.Experience) > 0 {
		section("Experience")
		for _, e := range r.Experience {
			sb.WriteString(s.Body.Bold(true).Render(e.Role) + "  " + s.Muted.Render(e.Duration) + "\n")
			if e.Company != "" {
				sb.WriteString(s.Subtitle.Render(e.Company) + "\n")
			}
			if e.Description != "" {
				sb.WriteString(wrap(e.Description, max(width-2, 10), "  ") + "\n")
			}
		}
	}
	if len(r.Education) > 0 {
		section("Education")
		for _, e := range r.Education {
			sb.WriteString(s.Body.Bold(true).Render(e.Degree) + "  " + s.Muted.Render(e.Year) + "\n")
			if e.University != "" {
				sb.WriteString("  " + e.University + "\n")
			}
		}
	}
	if len(r.Skills) > 0 {
		section("Technical Skills")
		sb.WriteString(wrap(strings.Join(r.Skills, " • "), width, "") + "\n")
	}
	if r.ImprovementTips != "" {
		sb.WriteString("\n" + s.Warning.Render("Tip: ") + wrap(r.ImprovementTips, max(width-5, 10), "") + "\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

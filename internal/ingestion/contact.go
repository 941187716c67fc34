package ingestion

import (
	"regexp"
	"strings"

	"github.com/kmuindi/resume-tailor/internal/models"
)

var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`(?:\+?\d{1,3}[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}`)
	linkedinRe = regexp.MustCompile(`(?:https?://)?(?:www\.)?linkedin\.com/[A-Za-z0-9/_\-]+`)
	urlRe      = regexp.MustCompile(`https?://[^\s<>"]+`)
)

// extractContact scans the leading header/contact section first and falls
// back to the full text for any field the header did not yield.
func extractContact(blocks []sectionBlock, fullText string) models.Contact {
	header := ""
	for _, block := range blocks {
		if block.Kind == models.SectionHeader {
			header = joinLines(block.Lines)
			break
		}
	}

	contact := scanContact(header)
	fallback := scanContact(fullText)

	if contact.Email == "" {
		contact.Email = fallback.Email
	}
	if contact.Phone == "" {
		contact.Phone = fallback.Phone
	}
	if contact.LinkedIn == "" {
		contact.LinkedIn = fallback.LinkedIn
	}
	if contact.Website == "" {
		contact.Website = fallback.Website
	}
	return contact
}

func scanContact(text string) models.Contact {
	contact := models.Contact{
		Email:    emailRe.FindString(text),
		Phone:    phoneRe.FindString(text),
		LinkedIn: linkedinRe.FindString(text),
	}

	// Website is any URL that is not the LinkedIn profile.
	for _, url := range urlRe.FindAllString(text, -1) {
		if !strings.Contains(url, "linkedin.com") {
			contact.Website = url
			break
		}
	}
	return contact
}

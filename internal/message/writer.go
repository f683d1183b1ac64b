package message

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/octobees/lead-scanner/internal/entity"
)

// WriteAll renders a reviewable plain-text sheet of drafts for every lead,
// one block per business, channels the lead lacks omitted.
func (g *Generator) WriteAll(w io.Writer, businesses []entity.Business, now time.Time) error {
	rule := strings.Repeat("=", 70)
	hash := strings.Repeat("#", 70)

	if _, err := fmt.Fprintf(w, "%s\nWIADOMOŚCI DO WYSŁANIA\nWygenerowano: %s\n%s\n\n",
		rule, now.Format("2006-01-02 15:04"), rule); err != nil {
		return err
	}

	for i, b := range businesses {
		bundle := g.Bundle(b)

		if _, err := fmt.Fprintf(w, "\n%s\n# FIRMA %d: %s\n%s\n\n", hash, i+1, bundle.Business, hash); err != nil {
			return err
		}

		if bundle.Email.To != "" {
			fmt.Fprintf(w, "--- EMAIL ---\nDo: %s\nTemat: %s\n\n%s\n\n",
				bundle.Email.To, bundle.Email.Subject, bundle.Email.Body)
		}
		if bundle.Instagram != "" {
			fmt.Fprintf(w, "--- INSTAGRAM DM ---\nProfil: %s\n\n%s\n\n", b.Instagram, bundle.Instagram)
		}
		if bundle.Facebook != "" {
			fmt.Fprintf(w, "--- FACEBOOK MESSENGER ---\nProfil: %s\n\n%s\n\n", b.Facebook, bundle.Facebook)
		}
		if bundle.LinkedIn != "" {
			fmt.Fprintf(w, "--- LINKEDIN ---\nProfil: %s\n\n%s\n\n", b.LinkedIn, bundle.LinkedIn)
		}
	}

	return nil
}

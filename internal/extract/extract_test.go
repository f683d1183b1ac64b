package extract

import (
	"reflect"
	"strings"
	"testing"

	"github.com/octobees/lead-scanner/internal/config"
)

func newTestExtractor() *Extractor {
	return New(config.DefaultRules())
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	cases := map[string]string{
		"":                        "",
		"   ":                     "",
		"Piekarnia  Kowalski":     "Piekarnia Kowalski",
		"\tul. Długa 5\n Szczecin ": "ul. Długa 5 Szczecin",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestPhonesExtractsNineDigitNumbers(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "country code stripped",
			text: "Zadzwoń: +48 512 345 678",
			want: []string{"512345678"},
		},
		{
			name: "separator variants collapse to one number",
			text: "tel. 512-345-678 lub 512 345 678",
			want: []string{"512345678"},
		},
		{
			name: "landline grouping",
			text: "Biuro: 91 433 12 34",
			want: []string{"914331234"},
		},
		{
			name: "too short is discarded",
			text: "kod 12345",
			want: nil,
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := e.Phones(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Phones(%q) = %#v, want %#v", tc.text, got, tc.want)
			}
		})
	}
}

func TestPhonesAlwaysReturnsNineDigits(t *testing.T) {
	e := newTestExtractor()
	text := "+48 601 234 567, 22 123 45 67, 123456789012, kontakt 91-488-11-22"

	for _, phone := range e.Phones(text) {
		if len(phone) != 9 {
			t.Errorf("phone %q is not 9 digits", phone)
		}
		if strings.ContainsFunc(phone, func(r rune) bool { return r < '0' || r > '9' }) {
			t.Errorf("phone %q contains non-digits", phone)
		}
	}
}

func TestPhonesSkipsSpamDenylist(t *testing.T) {
	rules := config.DefaultRules()
	rules.SpamPhones = []string{"801 002 102"}
	e := New(rules)

	got := e.Phones("infolinia 801 002 102, firma 512 345 678")
	if !reflect.DeepEqual(got, []string{"512345678"}) {
		t.Fatalf("expected denylisted number to be dropped, got %#v", got)
	}
}

func TestPhonesDeterministicAcrossRuns(t *testing.T) {
	e := newTestExtractor()
	text := "512 345 678 oraz +48 601 234 567 i 91 433 12 34"

	first := e.Phones(text)
	second := e.Phones(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extraction is not idempotent: %#v vs %#v", first, second)
	}
}

func TestEmailsLowercasesAndCaps(t *testing.T) {
	e := newTestExtractor()
	text := "Biuro@Firma.PL, kontakt@firma.pl, info@firma.pl, sklep@firma.pl, biuro@firma.pl"

	got := e.Emails(text)
	if len(got) != 3 {
		t.Fatalf("expected at most 3 emails, got %d: %#v", len(got), got)
	}
	want := []string{"biuro@firma.pl", "kontakt@firma.pl", "info@firma.pl"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Emails() = %#v, want %#v", got, want)
	}
}

func TestEmailsFiltersSpamMarkers(t *testing.T) {
	e := newTestExtractor()
	text := "user@example.com, kontakt@panoramafirm.pl, biuro@piekarnia.szczecin.pl"

	got := e.Emails(text)
	if !reflect.DeepEqual(got, []string{"biuro@piekarnia.szczecin.pl"}) {
		t.Fatalf("expected denylisted addresses dropped, got %#v", got)
	}
}

func TestEmailsEmptyInput(t *testing.T) {
	e := newTestExtractor()
	if got := e.Emails(""); got != nil {
		t.Fatalf("expected nil for empty input, got %#v", got)
	}
}

func TestSocialSkipsSharerLinks(t *testing.T) {
	e := newTestExtractor()
	html := `<a href="https://www.facebook.com/sharer/sharer.php?u=x">Udostępnij</a>
<a href="https://facebook.com/piekarnia.szczecin">Facebook</a>`

	links := e.Social(html)
	if links.Facebook != "https://facebook.com/piekarnia.szczecin" {
		t.Fatalf("expected genuine handle to win, got %q", links.Facebook)
	}
}

func TestSocialNormalizesSpellingVariants(t *testing.T) {
	e := newTestExtractor()

	variants := []string{
		"https://www.instagram.com/kwiaciarnia.anna/",
		"//instagram.com/kwiaciarnia.anna",
		"instagram.com/kwiaciarnia.anna",
	}
	for _, v := range variants {
		links := e.Social(v)
		if links.Instagram != "https://instagram.com/kwiaciarnia.anna" {
			t.Errorf("variant %q normalized to %q", v, links.Instagram)
		}
	}
}

func TestSocialLinkedInKeepsKindSegment(t *testing.T) {
	e := newTestExtractor()
	links := e.Social(`<a href="https://www.linkedin.com/company/biuro-rachunkowe-xyz/">LinkedIn</a>`)
	if links.LinkedIn != "https://linkedin.com/company/biuro-rachunkowe-xyz" {
		t.Fatalf("unexpected linkedin url: %q", links.LinkedIn)
	}
}

func TestSocialXDomainMapsToTwitter(t *testing.T) {
	e := newTestExtractor()
	links := e.Social("obserwuj nas: x.com/zakladfoto")
	if links.Twitter != "https://twitter.com/zakladfoto" {
		t.Fatalf("unexpected twitter url: %q", links.Twitter)
	}
}

func TestSocialEmptyWhenNoneFound(t *testing.T) {
	e := newTestExtractor()
	links := e.Social("<p>Brak linków</p>")
	if links != (SocialLinks{}) {
		t.Fatalf("expected empty links, got %#v", links)
	}
}

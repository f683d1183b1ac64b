// Package message builds personalized Polish outreach drafts for scanned
// leads. Drafts are generated for operator review and manual sending;
// automated delivery would violate platform terms and direct-marketing law.
package message

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"

	"github.com/octobees/lead-scanner/internal/config"
	"github.com/octobees/lead-scanner/internal/entity"
	"github.com/octobees/lead-scanner/internal/service/scoring"
)

// Kind selects an email template.
type Kind string

const (
	KindStandard Kind = "standard"
	KindShort    Kind = "short"
	KindPremium  Kind = "premium"
)

// Email is one ready-to-send draft.
type Email struct {
	To           string `json:"to"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	BusinessName string `json:"business_name"`
}

// Bundle holds every channel's draft for one business.
type Bundle struct {
	Business  string `json:"business"`
	Email     Email  `json:"email"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// Generator renders drafts with the configured sender identity.
type Generator struct {
	sender config.Sender
	city   string
}

// NewGenerator builds a generator for one sender and target city.
func NewGenerator(sender config.Sender, city string) *Generator {
	return &Generator{sender: sender, city: city}
}

// SuggestKind picks the email template matching the lead's priority. High
// scorers get the premium pitch, cold leads the short one.
func (g *Generator) SuggestKind(b entity.Business) Kind {
	switch scoring.Score(b).Priority {
	case scoring.PriorityHot:
		return KindPremium
	case scoring.PriorityWarm:
		return KindStandard
	default:
		return KindShort
	}
}

// Email renders one email draft. An unknown kind falls back to standard.
func (g *Generator) Email(b entity.Business, kind Kind) Email {
	name := b.Name
	if name == "" {
		name = "Szanowni Państwo"
	}

	var subject, body string
	switch kind {
	case KindShort:
		subject, body = g.emailShort(name)
	case KindPremium:
		subject, body = g.emailPremium(name, b.Industry)
	default:
		subject, body = g.emailStandard(name, b.Industry)
	}

	return Email{To: b.Email, Subject: subject, Body: body, BusinessName: name}
}

func (g *Generator) emailStandard(name, industry string) (string, string) {
	if industry == "" {
		industry = "usługowej"
	}
	subject := fmt.Sprintf("Propozycja współpracy - strona internetowa dla %s", name)
	body := fmt.Sprintf(`Dzień dobry,

Piszę do Państwa w imieniu %s.

Zauważyłem, że firma %s nie posiada jeszcze własnej strony internetowej. W dzisiejszych czasach obecność online jest kluczowa dla rozwoju biznesu - ponad 80%% klientów szuka usług i produktów w internecie przed podjęciem decyzji.

Specjalizujemy się w tworzeniu profesjonalnych stron internetowych dla firm z branży %s. Oferujemy:

✓ Nowoczesny, responsywny design dopasowany do Państwa marki
✓ Optymalizację pod wyszukiwarki (SEO) - żeby klienci łatwo Was znaleźli
✓ Łatwą edycję treści - bez znajomości programowania
✓ Integrację z mediami społecznościowymi
✓ Bezpłatną konsultację i wycenę

Czy moglibyśmy umówić się na krótką, niezobowiązującą rozmowę telefoniczną?

Z poważaniem,
%s
%s
Tel: %s
Email: %s
%s

---
Jeśli nie są Państwo zainteresowani, przepraszam za wiadomość.
Proszę o odpowiedź "STOP" - więcej nie napiszę.
`, g.sender.Company, name, industry, g.sender.Name, g.sender.Company, g.senderPhone(), g.sender.Email, g.sender.Website)
	return subject, body
}

func (g *Generator) emailShort(name string) (string, string) {
	subject := fmt.Sprintf("Strona www dla %s?", name)
	body := fmt.Sprintf(`Dzień dobry,

Czy zastanawialiście się Państwo nad stworzeniem strony internetowej dla %s?

Pomagam lokalnym firmom z miasta %s zaistnieć w internecie. Oferuję:
• Profesjonalną stronę od 1500 zł
• Gotową w 2 tygodnie
• Bezpłatną konsultację

Zainteresowani? Proszę o kontakt:
%s | %s

Pozdrawiam,
%s
`, name, g.city, g.senderPhone(), g.sender.Email, g.sender.Name)
	return subject, body
}

func (g *Generator) emailPremium(name, industry string) (string, string) {
	if industry == "" {
		industry = "lokalnych usług"
	}
	subject := fmt.Sprintf("Cyfrowa transformacja dla %s - propozycja partnerstwa", name)
	body := fmt.Sprintf(`Szanowni Państwo,

Analizując rynek %s w mieście %s, zwróciłem uwagę na firmę %s jako lidera w swojej branży.

Jako %s, specjalizujemy się w kompleksowej obecności online dla firm premium. Chciałbym zaproponować współpracę obejmującą:

1. STRONA INTERNETOWA
   - Indywidualny projekt graficzny
   - System rezerwacji/kontaktu online
   - Blog firmowy wspierający SEO

2. MARKETING CYFROWY
   - Pozycjonowanie w Google
   - Kampanie Google Ads
   - Zarządzanie social media

3. WSPARCIE TECHNICZNE
   - Hosting i bezpieczeństwo
   - Regularne aktualizacje
   - Wsparcie 24/7

Zapraszam na bezpłatną konsultację, podczas której przeanalizujemy Państwa potrzeby i przedstawię konkretne rozwiązania.

Czy mogę zadzwonić w tym tygodniu?

Z wyrazami szacunku,
%s
%s
%s
%s
`, industry, g.city, name, g.sender.Company, g.sender.Name, g.sender.Company, g.senderPhone(), g.sender.Website)
	return subject, body
}

// InstagramDM renders a short informal direct message.
func (g *Generator) InstagramDM(b entity.Business) string {
	return fmt.Sprintf(`Cześć! 👋

Prowadzę %s i pomagam lokalnym firmom z miasta %s w tworzeniu stron internetowych.

Zauważyłem, że %s nie ma jeszcze strony www. W dzisiejszych czasach to naprawdę pomaga dotrzeć do nowych klientów! 📱💻

Jeśli byłoby zainteresowanie, chętnie opowiem więcej. Bez zobowiązań!

Pozdrawiam,
%s
`, g.sender.Company, g.city, b.Name, g.sender.Name)
}

// FacebookMessage renders a friendlier Messenger draft.
func (g *Generator) FacebookMessage(b entity.Business) string {
	industry := b.Industry
	if industry == "" {
		industry = "lokalne firmy"
	}
	return fmt.Sprintf(`Dzień dobry!

Piszę z %s - zajmujemy się tworzeniem stron internetowych dla firm z regionu %s.

Przeglądając %s, trafiłem na %s. Świetnie, że jesteście aktywni na Facebooku! 👍

Zastanawiałem się, czy rozważaliście Państwo własną stronę www? To świetne uzupełnienie profilu na FB - klienci mogą łatwo znaleźć wszystkie informacje, a Google pokazuje Was w wynikach wyszukiwania.

Jeśli temat jest ciekawy, chętnie porozmawiam - bez żadnych zobowiązań!

Pozdrawiam serdecznie,
%s
📞 %s
`, g.sender.Company, g.city, industry, b.Name, g.sender.Name, g.senderPhone())
}

// LinkedInMessage renders a B2B-toned draft.
func (g *Generator) LinkedInMessage(b entity.Business) string {
	return fmt.Sprintf(`Dzień dobry,

Łączę się z przedstawicielami lokalnych firm z miasta %s, którym mogę pomóc w rozwoju obecności online.

Zauważyłem, że %s nie posiada jeszcze strony internetowej. W %s specjalizujemy się właśnie w tym - tworzymy profesjonalne strony, które pomagają firmom pozyskiwać nowych klientów.

Czy byłaby Pani/Pan zainteresowana krótką rozmową na ten temat?

Z poważaniem,
%s
%s
`, g.city, b.Name, g.sender.Company, g.sender.Name, g.sender.Company)
}

// Bundle renders every channel's draft for one business, skipping channels
// the lead is not reachable on.
func (g *Generator) Bundle(b entity.Business) Bundle {
	bundle := Bundle{
		Business: b.Name,
		Email:    g.Email(b, g.SuggestKind(b)),
	}
	if b.Instagram != "" {
		bundle.Instagram = g.InstagramDM(b)
	}
	if b.Facebook != "" {
		bundle.Facebook = g.FacebookMessage(b)
	}
	if b.LinkedIn != "" {
		bundle.LinkedIn = g.LinkedInMessage(b)
	}
	return bundle
}

func (g *Generator) senderPhone() string {
	return DisplayPhone(g.sender.Phone)
}

// DisplayPhone formats a stored phone for humans, "+48 512 345 678" style.
// Unparseable input is returned unchanged rather than dropped.
func DisplayPhone(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := phonenumbers.Parse(raw, "PL")
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return raw
	}
	return phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL)
}

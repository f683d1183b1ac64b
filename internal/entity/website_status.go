package entity

// WebsiteStatus is the transient result of checking a single URL.
// It is constructed fresh per check and consumed immediately by the caller.
type WebsiteStatus struct {
	URL           string `json:"url"`
	Exists        bool   `json:"exists"`
	IsActive      bool   `json:"is_active"`
	IsCompanySite bool   `json:"is_company_site"`
	StatusCode    int    `json:"status_code,omitempty"`
	RedirectURL   string `json:"redirect_url,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Confirmed reports whether the checked URL is a live, genuine company site.
func (s WebsiteStatus) Confirmed() bool {
	return s.Exists && s.IsActive && s.IsCompanySite
}

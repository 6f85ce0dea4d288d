package models

type SocialLink struct {
	URL  string `json:"url"`
	Icon string `json:"icon"`
	Name string `json:"name"`
}

type FooterLink struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type SiteSettings struct {
	ID          int64        `json:"id"`
	Phone       string       `json:"phone"`
	Email       string       `json:"email"`
	Description string       `json:"description"`
	SocialLinks []SocialLink `json:"social_links"`
	FooterLinks []FooterLink `json:"footer_links"`
	CreatedAt   string       `json:"created_at,omitempty"`
	UpdatedAt   string       `json:"updated_at,omitempty"`
}

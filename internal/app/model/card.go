package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SocialLink is one social channel on a card. Enabled controls
// visibility independently of whether URL is filled in.
type SocialLink struct {
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// Socials is the fixed set of channels a card can show.
type Socials struct {
	LinkedIn  SocialLink `json:"linkedin"`
	Instagram SocialLink `json:"instagram"`
	Twitter   SocialLink `json:"twitter"`
	YouTube   SocialLink `json:"youtube"`
	Facebook  SocialLink `json:"facebook"`
	WhatsApp  SocialLink `json:"whatsapp"`
}

// StyleOptions carries the visual knobs exposed by the editor.
type StyleOptions struct {
	AccentColor string `json:"accentColor"`
}

// LogoPosition is a percentage coordinate pair inside the card face.
type LogoPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Card is one business-card profile. Media fields hold opaque storage
// keys, never raw bytes; they are resolved to URLs against the CDN base.
// Records are replaced whole on update, there is no field-level patch.
type Card struct {
	ID                    string       `json:"id"`
	CardName              string       `json:"cardName"`
	Name                  string       `json:"name"`
	Title                 string       `json:"title"`
	CompanyName           string       `json:"companyName"`
	CompanyWebsite        string       `json:"companyWebsite"`
	Phone                 string       `json:"phone"`
	Email                 string       `json:"email"`
	Address               string       `json:"address"`
	AddressLink           string       `json:"addressLink"`
	CalendlyLink          string       `json:"calendlyLink"`
	Socials               Socials      `json:"socials"`
	ProfilePictureKey     string       `json:"profilePictureKey,omitempty"`
	CompanyLogoKey        string       `json:"companyLogoKey,omitempty"`
	CompanyLogoPosition   LogoPosition `json:"companyLogoPosition"`
	CompanyLogoSize       int          `json:"companyLogoSize"`
	CardBackLogoKey       string       `json:"cardBackLogoKey,omitempty"`
	CardBackLogoSize      int          `json:"cardBackLogoSize"`
	StyleOptions          StyleOptions `json:"styleOptions"`
	MeetingButtonText     string       `json:"meetingButtonText"`
	SaveContactButtonText string       `json:"saveContactButtonText"`
}

// NewCardID mints a fresh globally unique card id.
func NewCardID() string {
	return "card-" + uuid.NewString()
}

// DefaultCard returns the profile a brand-new store is seeded with.
func DefaultCard() Card {
	return Card{
		ID:             fmt.Sprintf("card-%d", time.Now().UnixMilli()),
		CardName:       "Default Profile",
		Name:           "Atul Gupta",
		Title:          "Founder & CEO, Multisteer & Glydus",
		CompanyName:    "Glydus",
		CompanyWebsite: "https://glydus.com/",
		Phone:          "+919876543210",
		Email:          "atul.gupta@multisteer.com",
		Address:        "Nagpur, Maharashtra, India",
		AddressLink:    "https://maps.google.com/?q=Nagpur,+Maharashtra,+India",
		CalendlyLink:   "https://calendly.com/your-link",
		Socials: Socials{
			LinkedIn:  SocialLink{URL: "https://www.linkedin.com/in/atul-gupta-904bb7127/", Enabled: true},
			Instagram: SocialLink{URL: "https://www.instagram.com/atulgupta_1504", Enabled: true},
			Twitter:   SocialLink{URL: "https://x.com/Glydus_IN", Enabled: true},
			YouTube:   SocialLink{URL: "https://www.youtube.com/@Glydus", Enabled: true},
			Facebook:  SocialLink{URL: "https://www.facebook.com/share/16bWt5DqJ6/", Enabled: true},
			WhatsApp:  SocialLink{URL: "https://wa.me/919876543210", Enabled: true},
		},
		CompanyLogoPosition:   LogoPosition{X: 50, Y: 50},
		CompanyLogoSize:       140,
		CardBackLogoSize:      160,
		StyleOptions:          StyleOptions{AccentColor: "#00F0B5"},
		MeetingButtonText:     "Book Meeting",
		SaveContactButtonText: "Save Contact",
	}
}

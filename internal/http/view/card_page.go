package view

import (
	"bytes"
	"html/template"

	"cardpress/internal/app/model"
)

// SocialEntry is one enabled social channel, ready for rendering.
type SocialEntry struct {
	Label string
	URL   string
}

// CardPageData provides the dynamic fields required by the public card
// template. Media keys are already resolved to CDN URLs.
type CardPageData struct {
	CardName              string
	Name                  string
	Title                 string
	CompanyName           string
	CompanyWebsite        string
	Phone                 string
	Email                 string
	Address               string
	AddressLink           string
	CalendlyLink          string
	AccentColor           string
	ProfilePictureURL     string
	CompanyLogoURL        string
	CardBackLogoURL       string
	MeetingButtonText     string
	SaveContactButtonText string
	Socials               []SocialEntry
}

// NewCardPageData flattens a card into template data, resolving media
// keys against the CDN base and dropping disabled social channels.
func NewCardPageData(card model.Card, cdnBaseURL string) CardPageData {
	resolve := func(key string) string {
		if key == "" {
			return ""
		}
		return cdnBaseURL + "/" + key
	}

	data := CardPageData{
		CardName:              card.CardName,
		Name:                  card.Name,
		Title:                 card.Title,
		CompanyName:           card.CompanyName,
		CompanyWebsite:        card.CompanyWebsite,
		Phone:                 card.Phone,
		Email:                 card.Email,
		Address:               card.Address,
		AddressLink:           card.AddressLink,
		CalendlyLink:          card.CalendlyLink,
		AccentColor:           card.StyleOptions.AccentColor,
		ProfilePictureURL:     resolve(card.ProfilePictureKey),
		CompanyLogoURL:        resolve(card.CompanyLogoKey),
		CardBackLogoURL:       resolve(card.CardBackLogoKey),
		MeetingButtonText:     card.MeetingButtonText,
		SaveContactButtonText: card.SaveContactButtonText,
	}
	if data.AccentColor == "" {
		data.AccentColor = "#00F0B5"
	}

	channels := []struct {
		label string
		link  model.SocialLink
	}{
		{"LinkedIn", card.Socials.LinkedIn},
		{"Instagram", card.Socials.Instagram},
		{"Twitter", card.Socials.Twitter},
		{"YouTube", card.Socials.YouTube},
		{"Facebook", card.Socials.Facebook},
		{"WhatsApp", card.Socials.WhatsApp},
	}
	for _, ch := range channels {
		if ch.link.Enabled && ch.link.URL != "" {
			data.Socials = append(data.Socials, SocialEntry{Label: ch.label, URL: ch.link.URL})
		}
	}

	return data
}

var cardPageTmpl = template.Must(template.New("card_page").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1" />
	<title>{{if .CardName}}{{.CardName}}{{else}}Digital Card{{end}}</title>
	<style>
		:root {
			--bg: #090a0f;
			--card: rgba(255, 255, 255, 0.05);
			--border: rgba(255, 255, 255, 0.15);
			--text: #e7ecff;
			--muted: #a1acc5;
			--accent: {{.AccentColor}};
			font-family: "Inter", -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
		}
		* { box-sizing: border-box; }
		body {
			margin: 0;
			min-height: 100vh;
			display: flex;
			flex-direction: column;
			align-items: center;
			justify-content: center;
			background: radial-gradient(circle at 20% 20%, #111827, #030712 60%);
			color: var(--text);
			padding: 24px;
		}
		.scene { perspective: 1400px; width: min(384px, 92vw); }
		.card {
			position: relative;
			width: 100%;
			aspect-ratio: 384 / 640;
			transform-style: preserve-3d;
			transition: transform 0.6s ease;
		}
		.card.flipped { transform: rotateY(180deg); }
		.face {
			position: absolute;
			inset: 0;
			backface-visibility: hidden;
			background: var(--card);
			border: 1px solid var(--border);
			border-radius: 18px;
			padding: 28px;
			display: flex;
			flex-direction: column;
			box-shadow: 0 45px 100px rgba(0,0,0,0.35);
			backdrop-filter: blur(18px);
		}
		.face.back {
			transform: rotateY(180deg);
			align-items: center;
			justify-content: center;
		}
		.avatar {
			width: 96px;
			height: 96px;
			border-radius: 50%;
			object-fit: cover;
			border: 2px solid var(--accent);
		}
		h1 { font-size: 1.4rem; margin: 18px 0 2px; }
		.title { color: var(--accent); font-size: 0.95rem; margin: 0; }
		.company { color: var(--muted); font-size: 0.9rem; margin: 4px 0 0; }
		.rows { margin-top: 22px; display: flex; flex-direction: column; gap: 10px; }
		.rows a {
			color: var(--text);
			text-decoration: none;
			font-size: 0.92rem;
			word-break: break-all;
		}
		.rows a:hover { color: var(--accent); }
		.cta {
			margin-top: auto;
			display: inline-flex;
			align-items: center;
			justify-content: center;
			height: 46px;
			border-radius: 999px;
			background: var(--accent);
			color: #050708;
			font-weight: 600;
			text-decoration: none;
		}
		.socials {
			margin-top: 16px;
			display: flex;
			flex-wrap: wrap;
			gap: 10px;
		}
		.socials a {
			font-size: 0.82rem;
			color: var(--muted);
			text-decoration: none;
			border: 1px solid var(--border);
			border-radius: 999px;
			padding: 6px 12px;
		}
		.socials a:hover { color: var(--accent); border-color: var(--accent); }
		.back img { max-width: 70%; }
		.back .placeholder { color: var(--muted); font-size: 0.9rem; }
		.flip {
			margin-top: 28px;
			background: rgba(255,255,255,0.1);
			border: 1px solid var(--border);
			color: var(--text);
			font-weight: 600;
			padding: 10px 26px;
			border-radius: 10px;
			cursor: pointer;
		}
		.flip:hover { background: rgba(255,255,255,0.2); }
	</style>
</head>
<body>
	<div class="scene">
		<div class="card" id="card">
			<div class="face front">
				{{if .ProfilePictureURL}}<img class="avatar" src="{{.ProfilePictureURL}}" alt="{{.Name}}" />{{end}}
				<h1>{{.Name}}</h1>
				{{if .Title}}<p class="title">{{.Title}}</p>{{end}}
				{{if .CompanyName}}<p class="company">{{.CompanyName}}</p>{{end}}

				<div class="rows">
					{{if .Phone}}<a href="tel:{{.Phone}}">{{.Phone}}</a>{{end}}
					{{if .Email}}<a href="mailto:{{.Email}}">{{.Email}}</a>{{end}}
					{{if .Address}}<a href="{{if .AddressLink}}{{.AddressLink}}{{else}}#{{end}}" target="_blank" rel="noopener">{{.Address}}</a>{{end}}
					{{if .CompanyWebsite}}<a href="{{.CompanyWebsite}}" target="_blank" rel="noopener">{{.CompanyWebsite}}</a>{{end}}
				</div>

				{{if .Socials}}
				<div class="socials">
					{{range .Socials}}<a href="{{.URL}}" target="_blank" rel="noopener">{{.Label}}</a>{{end}}
				</div>
				{{end}}

				{{if .CalendlyLink}}
				<a class="cta" href="{{.CalendlyLink}}" target="_blank" rel="noopener">
					{{if .MeetingButtonText}}{{.MeetingButtonText}}{{else}}Book Meeting{{end}}
				</a>
				{{end}}
			</div>
			<div class="face back">
				{{if .CardBackLogoURL}}
				<img src="{{.CardBackLogoURL}}" alt="{{.CompanyName}}" />
				{{else if .CompanyLogoURL}}
				<img src="{{.CompanyLogoURL}}" alt="{{.CompanyName}}" />
				{{else}}
				<div class="placeholder">{{if .CompanyName}}{{.CompanyName}}{{else}}{{.Name}}{{end}}</div>
				{{end}}
			</div>
		</div>
	</div>
	<button class="flip" id="flip">Flip to Back</button>

	<script>
		(function() {
			const card = document.getElementById("card");
			const flip = document.getElementById("flip");
			flip.addEventListener("click", () => {
				card.classList.toggle("flipped");
				flip.textContent = card.classList.contains("flipped")
					? "Flip to Front"
					: "Flip to Back";
			});
		})();
	</script>
</body>
</html>
`))

// RenderCardPage expands the public card template with the provided data.
func RenderCardPage(data CardPageData) (string, error) {
	var buf bytes.Buffer
	if err := cardPageTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

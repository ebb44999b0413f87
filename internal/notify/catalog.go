package notify

// Urgency describes one urgency tier as shown to operators.
type Urgency struct {
	Label string `mapstructure:"label" yaml:"label"`
	Emoji string `mapstructure:"emoji" yaml:"emoji"`
}

// Catalog holds the display labels of services and urgency tiers.
// Unknown keys render as themselves.
type Catalog struct {
	Services  map[string]string  `mapstructure:"services" yaml:"services"`
	Urgencies map[string]Urgency `mapstructure:"urgencies" yaml:"urgencies"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		Services: map[string]string{
			"cdid":          "🎮 CDid",
			"garden":        "🌱 Grow a Garden",
			"akun":          "👤 Akun",
			"bloxfruit":     "🎯 Blox Fruit",
			"joki-ml":       "🎮 Joki Mobile Legends",
			"joki-pubg":     "🎯 Joki PUBG",
			"top-up-ff":     "💎 Top Up Free Fire",
			"top-up-ml":     "💎 Top Up Mobile Legends",
			"joki-valorant": "🎮 Joki Valorant",
			"netflix":       "📺 Akun Netflix",
			"spotify":       "🎵 Akun Spotify",
			"steam":         "🎮 Steam Wallet",
			"other":         "🔧 Lainnya",
		},
		Urgencies: map[string]Urgency{
			"normal":  {Label: "Normal (24-48 jam)", Emoji: "⏱️"},
			"fast":    {Label: "Cepat (12-24 jam) +20%", Emoji: "⚡"},
			"instant": {Label: "Instan (1-6 jam) +50%", Emoji: "🚀"},
		},
	}
}

func (c Catalog) ServiceName(key string) string {
	if v, ok := c.Services[key]; ok {
		return v
	}
	return key
}

func (c Catalog) UrgencyText(key string) string {
	if u, ok := c.Urgencies[key]; ok {
		return u.Label
	}
	return key
}

func (c Catalog) UrgencyEmoji(key string) string {
	return c.Urgencies[key].Emoji
}

package notify

const (
	ColorTransaction = 3447003
	ColorAnnounce    = 15844367
	ColorCustom      = 9936031

	// AnnouncePhotoName is the name of the multipart file part and of the embed image attachment.
	AnnouncePhotoName = "announce_photo.png"
)

// Brand carries the storefront name and artwork used across embeds.
type Brand struct {
	Platform        string `mapstructure:"platform" yaml:"platform"`
	IconURL         string `mapstructure:"icon_url" yaml:"icon_url"`
	LogoURL         string `mapstructure:"logo_url" yaml:"logo_url"`
	AlertIconURL    string `mapstructure:"alert_icon_url" yaml:"alert_icon_url"`
	AlertThumbURL   string `mapstructure:"alert_thumb_url" yaml:"alert_thumb_url"`
	AnnounceIconURL string `mapstructure:"announce_icon_url" yaml:"announce_icon_url"`
}

func DefaultBrand() Brand {
	const cdn = "https://cdn.discordapp.com/attachments/placeholder/"
	return Brand{
		Platform:        "ANTC TRX",
		IconURL:         cdn + "icon.png",
		LogoURL:         cdn + "logo.png",
		AlertIconURL:    cdn + "antc-icon.png",
		AlertThumbURL:   cdn + "transaction-icon.png",
		AnnounceIconURL: cdn + "megaphone-icon.png",
	}
}

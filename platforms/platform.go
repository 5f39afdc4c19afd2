package platform

const (
	Twitter   = "twitter"
	Facebook  = "facebook"
	Instagram = "instagram"
	YouTube   = "youtube"
	TikTok    = "tiktok"
)

var ALL_PLATFORMS = map[string]struct{}{
	Twitter:   struct{}{},
	Facebook:  struct{}{},
	Instagram: struct{}{},
	YouTube:   struct{}{},
	TikTok:    struct{}{},
}

func IsKnown(p string) bool {
	_, ok := ALL_PLATFORMS[p]
	return ok
}

package domain

// ItemCategories is the fixed set of trade professions a job may target.
var ItemCategories = []string{
	"Alchemy",
	"Animal Husbandry",
	"Arcane Engineering",
	"Armor Smithing",
	"Carpentry",
	"Cooking",
	"Farming",
	"Fishing",
	"Herbalism",
	"Hunting",
	"Jewel Cutting",
	"Leatherworking",
	"Lumberjacking",
	"Lumber Milling",
	"Metalworking",
	"Mining",
	"Other",
	"Scribing",
	"Stonemasonry",
	"Tailoring",
	"Tanning",
	"Weapon Smithing",
	"Weaving",
}

// CertificationLevels is the skill-tier ladder attached to a bid.
var CertificationLevels = []string{
	"Novice",
	"Apprentice",
	"Journeyman",
	"Master",
	"Grandmaster",
}

// ValidItemCategory reports whether s is a known trade profession.
func ValidItemCategory(s string) bool {
	for _, c := range ItemCategories {
		if c == s {
			return true
		}
	}
	return false
}

// ValidCertificationLevel reports whether s is a known certification tier.
func ValidCertificationLevel(s string) bool {
	for _, l := range CertificationLevels {
		if l == s {
			return true
		}
	}
	return false
}

// Notification type tags. Values mirror the type column on notifications.
const (
	NotificationJobStatus      = "job_status"
	NotificationNewBid         = "new_bid"
	NotificationBidUpdate      = "bid_update"
	NotificationJobUpdate      = "job_update"
	NotificationServiceRequest = "service_request"
	NotificationCustomMessage  = "custom_message"
)

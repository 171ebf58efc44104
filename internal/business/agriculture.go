package business

import (
	"fmt"
	"strings"
)

func init() {
	register("agriculture", func() Profile { return &agricultureProfile{} })
}

// agricultureProfile answers crop and season questions from the
// farming advisory tables.
type agricultureProfile struct{}

// cropDetails holds planting guidance per crop.
var cropDetails = map[string]struct {
	PlantingTime string
	Fertilizer   string
	HarvestTime  string
	Problems     string
}{
	"wheat": {
		PlantingTime: "late October to mid-November",
		Fertilizer:   "NPK 120-60-60 kg/acre",
		HarvestTime:  "March to April",
		Problems:     "yellow rust and aphids; use fungicides and crop rotation",
	},
	"rice": {
		PlantingTime: "June to July",
		Fertilizer:   "NPK 90-60-60 kg/acre",
		HarvestTime:  "October to November",
		Problems:     "bacterial leaf blight and stem borers; use resistant varieties",
	},
	"cotton": {
		PlantingTime: "March to May",
		Fertilizer:   "NPK 120-60-60 kg/acre",
		HarvestTime:  "October onwards",
		Problems:     "bollworms and leaf curl virus; use Bt varieties and proper spacing",
	},
	"sugarcane": {
		PlantingTime: "February to March",
		Fertilizer:   "NPK 150-60-60 kg/acre",
		HarvestTime:  "December to March",
		Problems:     "borers and red rot; use healthy seed cane",
	},
}

// seasonInfo holds the two growing seasons.
var seasonInfo = map[string]struct {
	Name       string
	Planting   string
	Harvesting string
	Crops      string
}{
	"rabi": {
		Name:       "Rabi (Winter)",
		Planting:   "October to December",
		Harvesting: "April to May",
		Crops:      "wheat, barley, chickpeas, mustard, potatoes",
	},
	"kharif": {
		Name:       "Kharif (Summer)",
		Planting:   "June to July",
		Harvesting: "September to October",
		Crops:      "rice, corn, cotton, sugarcane, soybeans",
	},
}

func (p *agricultureProfile) Domain() string { return "agriculture" }

func (p *agricultureProfile) Answer(utterance string) (string, bool) {
	lower := strings.ToLower(utterance)

	for crop, d := range cropDetails {
		if strings.Contains(lower, crop) {
			return fmt.Sprintf(
				"%s is planted %s with %s, and harvested %s. Watch for %s.",
				strings.ToUpper(crop[:1])+crop[1:], d.PlantingTime, d.Fertilizer, d.HarvestTime, d.Problems,
			), true
		}
	}

	for key, s := range seasonInfo {
		if strings.Contains(lower, key) {
			return fmt.Sprintf(
				"%s: planting %s, harvesting %s. Recommended crops: %s.",
				s.Name, s.Planting, s.Harvesting, s.Crops,
			), true
		}
	}

	return "", false
}

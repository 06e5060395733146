package advice

import (
	"strconv"
	"strings"
)

// Advice is the canned assistant text shown next to a classification result.
// It depends only on the preterm flag.
type Advice struct {
	Title           string   `json:"title"`
	Summary         string   `json:"summary"`
	Intro           string   `json:"intro"`
	Recommendations []string `json:"recommendations"`
}

// Text renders the advice the way the assistant panel displays it.
func (a Advice) Text() string {
	var b strings.Builder
	b.WriteString(a.Intro)
	for i, rec := range a.Recommendations {
		b.WriteString("\n\n")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(rec)
	}
	return b.String()
}

var table = map[bool]Advice{
	true: {
		Title:   "Preterm Birth Detected",
		Summary: "The measurements indicate a gestational age below 37 weeks, suggesting preterm birth.",
		Intro:   "Important precautions for preterm birth:",
		Recommendations: []string{
			"Immediate medical attention: Consult with a healthcare provider as soon as possible.",
			"Temperature regulation: Maintain proper warmth for the newborn, as preterm babies often struggle with temperature regulation.",
			"Careful feeding: Follow specialized feeding protocols - preterm infants may require specialized nutrition.",
			"Respiratory monitoring: Watch for signs of respiratory distress, which is common in preterm infants.",
			"Infection prevention: Take extra precautions to prevent infections as preterm babies have immature immune systems.",
			"Developmental support: Understand that preterm infants may have different developmental timelines.",
			"Follow-up care: Ensure regular follow-up appointments with healthcare providers.",
			"Skin-to-skin contact: Practice kangaroo care when medically appropriate to help with development and bonding.",
		},
	},
	false: {
		Title:   "Full-Term Birth",
		Summary: "The measurements indicate a gestational age of 37 weeks or more, suggesting full-term birth.",
		Intro:   "Your measurements indicate a full-term birth. Here are some general recommendations:",
		Recommendations: []string{
			"Regular check-ups: Continue with scheduled pediatric appointments.",
			"Feeding schedule: Maintain regular feeding times based on your healthcare provider's recommendations.",
			"Sleep safety: Always place baby on back to sleep and follow safe sleep guidelines.",
			"Temperature: Maintain comfortable room temperature and dress baby appropriately.",
			"Bonding: Spend time holding, talking to, and making eye contact with your baby.",
			"Watch for warning signs: Contact your doctor if you notice fever, poor feeding, or unusual irritability.",
			"Vaccination: Follow the recommended vaccination schedule from your healthcare provider.",
		},
	},
}

// For returns the advice for the given outcome. The returned value owns its
// recommendation slice.
func For(isPreterm bool) Advice {
	a := table[isPreterm]
	a.Recommendations = append([]string(nil), a.Recommendations...)
	return a
}

// Disclaimer is printed under every result.
const Disclaimer = "This prediction is based on current measurements and should be used in conjunction with clinical assessment."

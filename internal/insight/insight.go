package insight

type Topic string

const (
	TopicSkincare  Topic = "skincare"
	TopicFitness   Topic = "fitness"
	TopicNutrition Topic = "nutrition"
	TopicSleep     Topic = "sleep"
)

func ValidTopic(t Topic) bool {
	switch t {
	case TopicSkincare, TopicFitness, TopicNutrition, TopicSleep:
		return true
	}
	return false
}

type AdviceRequest struct {
	Topic  Topic  `json:"topic"`
	Prompt string `json:"prompt"`
}

// Advice is the structured shape the model is asked to fill via a
// response JSON schema.
type Advice struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
	Cautions        []string `json:"cautions"`
}

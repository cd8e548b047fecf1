package scoring

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/yourusername/podium-picks/internal/models"
)

var (
	userA    = uuid.MustParse("00000000-0000-4000-8000-00000000000a")
	userB    = uuid.MustParse("00000000-0000-4000-8000-00000000000b")
	userC    = uuid.MustParse("00000000-0000-4000-8000-00000000000c")
	seasonID = uuid.MustParse("11111111-0000-4000-8000-000000000001")
	eventID  = uuid.MustParse("22222222-0000-4000-8000-000000000001")
)

func scoreFor(scores []models.PerPredictionScore, user uuid.UUID, group string, slot int) (models.PerPredictionScore, bool) {
	for _, s := range scores {
		if s.UserID == user && s.Group == group && s.Slot == slot {
			return s, true
		}
	}
	return models.PerPredictionScore{}, false
}

func totalFor(totals []models.UserTotal, user uuid.UUID) (models.UserTotal, bool) {
	for _, t := range totals {
		if t.UserID == user {
			return t, true
		}
	}
	return models.UserTotal{}, false
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

package survey

import (
	"time"

	"github.com/formdesk/formdesk/model"
	"gorm.io/gorm"
)

// CleanupStaleResponses drops in-progress responses abandoned for longer
// than maxAge; their answers go with them through the cascade. Returns the
// number of responses removed.
func CleanupStaleResponses(db *gorm.DB, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	result := db.
		Where("status = ? AND start_time < ?", model.ResponseStatusInProgress, cutoff).
		Delete(&model.Response{})
	return result.RowsAffected, result.Error
}

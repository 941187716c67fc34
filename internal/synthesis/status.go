package synthesis

import "github.com/kmuindi/resume-tailor/internal/models"

// finalizeStatus moves a pending-write bullet to its terminal state.
// Bullets in any other state are left alone, so calling it twice or on
// an unchanged bullet is harmless.
func finalizeStatus(st *models.BulletUpdateStatus, written bool) {
	if st.Status != models.BulletEnhancedPendingWrite {
		return
	}
	st.WrittenToDocument = written
	if written {
		st.Status = models.BulletEnhancedWritten
	} else {
		st.Status = models.BulletEnhancedNotWritten
	}
}

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-authgate/hvgate/internal/models"

	"gorm.io/gorm"
)

// GetHealthVaultUser returns the link for userID or ErrRecordNotFound.
func (s *Store) GetHealthVaultUser(ctx context.Context, userID string) (*models.HealthVaultUser, error) {
	var link models.HealthVaultUser
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&link).Error; err != nil {
		return nil, notFound(err)
	}
	return &link, nil
}

func validateHealthVaultUser(userID, recordID, accessToken string) error {
	switch {
	case strings.TrimSpace(userID) == "":
		return ErrMissingUserID
	case recordID == "":
		return ErrMissingRecordID
	case utf8.RuneCountInString(recordID) > models.RecordIDMaxLength:
		return ErrRecordIDTooLong
	case accessToken == "":
		return ErrEmptyAccessToken
	}
	return nil
}

// saveAttempts bounds SaveHealthVaultUser reruns after a unique index fires.
const saveAttempts = 2

// SaveHealthVaultUser creates or overwrites the link for userID in one
// transaction. On any error the previous link, if there was one, is left
// exactly as it was and no new row remains.
//
// When a concurrent save wins the insert, the transaction is rerun once and
// sees the committed row: either an existing link to overwrite or a record
// owned by another user.
func (s *Store) SaveHealthVaultUser(
	ctx context.Context,
	userID, recordID, accessToken string,
) (*models.HealthVaultUser, error) {
	if err := validateHealthVaultUser(userID, recordID, accessToken); err != nil {
		return nil, err
	}

	var link *models.HealthVaultUser
	err := retryOnDuplicate(func() error {
		var err error
		link, err = s.saveHealthVaultUserTx(ctx, userID, recordID, accessToken)
		return err
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

func retryOnDuplicate(save func() error) error {
	var err error
	for range saveAttempts {
		if err = save(); !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrConcurrentSave, err)
}

func (s *Store) saveHealthVaultUserTx(
	ctx context.Context,
	userID, recordID, accessToken string,
) (*models.HealthVaultUser, error) {
	var link models.HealthVaultUser
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owners int64
		if err := tx.Model(&models.HealthVaultUser{}).
			Where("record_id = ? AND user_id <> ?", recordID, userID).
			Count(&owners).Error; err != nil {
			return err
		}
		if owners > 0 {
			return ErrRecordIDConflict
		}

		err := tx.Where("user_id = ?", userID).First(&link).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			link = models.HealthVaultUser{
				UserID:      userID,
				RecordID:    recordID,
				AccessToken: accessToken,
			}
			return tx.Create(&link).Error
		case err != nil:
			return err
		}

		link.RecordID = recordID
		link.AccessToken = accessToken
		return tx.Save(&link).Error
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// DeleteHealthVaultUser removes the link for userID. Deleting a missing link
// is not an error; the result reports whether a row was removed.
func (s *Store) DeleteHealthVaultUser(ctx context.Context, userID string) (bool, error) {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.HealthVaultUser{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountHealthVaultUsers returns the number of linked users.
func (s *Store) CountHealthVaultUsers() (int64, error) {
	var count int64
	err := s.db.Model(&models.HealthVaultUser{}).Count(&count).Error
	return count, err
}

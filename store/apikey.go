package store

import (
	"errors"

	"github.com/jinzhu/gorm"
	"github.com/lib/pq"

	"github.com/bitmark-inc/geosubmit-api/schema"
)

const pqUniqueViolation = "23505"

var ErrAPIKeyExists = errors.New("api key already exists")

// GetAPIKey returns the api key record of a given key
func (s *GeoSubmitStore) GetAPIKey(key string) (*schema.APIKey, error) {
	var k schema.APIKey
	if err := s.ormDB.Where("valid_key = ?", key).First(&k).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrAPIKeyNotFound
		}
		return nil, err
	}
	return &k, nil
}

// CreateAPIKey registers a new api key
func (s *GeoSubmitStore) CreateAPIKey(key, shortname string, allowSubmit bool) (*schema.APIKey, error) {
	k := schema.APIKey{
		ValidKey:    key,
		Shortname:   shortname,
		AllowSubmit: allowSubmit,
	}

	if err := s.ormDB.Create(&k).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrAPIKeyExists
		}
		return nil, err
	}

	return &k, nil
}

// SetAllowSubmit changes the submit permission of an existing key
func (s *GeoSubmitStore) SetAllowSubmit(key string, allowSubmit bool) error {
	result := s.ormDB.Model(&schema.APIKey{}).
		Where("valid_key = ?", key).
		Update("allow_submit", allowSubmit)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAPIKeyNotFound
	}
	return nil
}

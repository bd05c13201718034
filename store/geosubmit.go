package store

import (
	"errors"

	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"

	"github.com/bitmark-inc/geosubmit-api/schema"
)

const ormLogPrefix = "orm"

var ErrAPIKeyNotFound = errors.New("api key not found")

// Pinger - ping database
type Pinger interface {
	Ping() error
}

// Closer - close db connection
type Closer interface {
	Close()
}

// APIKeys - look up registered api keys
type APIKeys interface {
	GetAPIKey(key string) (*schema.APIKey, error)
}

// APIKeyStore is the datastore used by the submit api
type APIKeyStore interface {
	APIKeys
	Pinger
	Closer
}

// GeoSubmitStore is an implementation of APIKeyStore
type GeoSubmitStore struct {
	ormDB *gorm.DB
}

func NewGeoSubmitStore(ormDB *gorm.DB) *GeoSubmitStore {
	return &GeoSubmitStore{
		ormDB: ormDB,
	}
}

// Ping is to check the storage health status
func (s *GeoSubmitStore) Ping() error {
	return s.ormDB.DB().Ping()
}

// Close releases the database connections
func (s *GeoSubmitStore) Close() {
	log.WithField("prefix", ormLogPrefix).Info("closing orm db connections")
	if err := s.ormDB.Close(); err != nil {
		log.WithField("prefix", ormLogPrefix).Error(err)
	}
}

// Migrate creates or updates the tables owned by this service
func (s *GeoSubmitStore) Migrate() error {
	return s.ormDB.AutoMigrate(&schema.APIKey{}).Error
}

package testutil

import (
	"fmt"
	"log"
	"strings"
	"testing"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/storage"
)

const (
	testDatabaseNamePrefix       = "testimonial-svc-test"
	inMemoryDataSourceNameFormat = "file:%s?mode=memory&cache=shared&_foreign_keys=on"
)

// SQLiteTestDatabase hands each test its own shared-cache in-memory database
// so concurrent harnesses never observe each other's forms, testimonials, or
// widgets.
type SQLiteTestDatabase struct {
	configuration storage.Config
}

// NewSQLiteTestDatabase builds a configuration for a uniquely named in-memory
// database.
func NewSQLiteTestDatabase(testingT *testing.T) SQLiteTestDatabase {
	testingT.Helper()

	return SQLiteTestDatabase{
		configuration: storage.Config{
			DriverName: storage.DriverNameSQLite,
			DataSourceName: fmt.Sprintf(inMemoryDataSourceNameFormat,
				fmt.Sprintf("%s-%s", testDatabaseNamePrefix, storage.NewID())),
		},
	}
}

// Configuration returns the storage configuration for the test database.
func (database SQLiteTestDatabase) Configuration() storage.Config {
	return database.configuration
}

// gormTestLogSink forwards gorm's log lines to the test log so failures keep
// their query context without polluting stdout.
type gormTestLogSink struct {
	testingT *testing.T
}

func (sink gormTestLogSink) Write(data []byte) (int, error) {
	if line := strings.TrimSpace(string(data)); line != "" {
		sink.testingT.Log(line)
	}
	return len(data), nil
}

// ConfigureDatabaseLogger routes gorm output through the test log and drops
// record-not-found noise, which ownership and moderation tests trigger on
// purpose.
func ConfigureDatabaseLogger(testingT *testing.T, database *gorm.DB) *gorm.DB {
	testingT.Helper()
	if database == nil {
		testingT.Fatalf("configure database logger: nil database")
	}

	quietLogger := gormlogger.New(
		log.New(gormTestLogSink{testingT: testingT}, "", 0),
		gormlogger.Config{
			IgnoreRecordNotFoundError: true,
			LogLevel:                  gormlogger.Error,
		},
	)
	return database.Session(&gorm.Session{Logger: quietLogger})
}

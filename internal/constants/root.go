package constants

import "time"

const (
	AppName            = "rotipani"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/rotipani/rotipani.db"
	Version            = "v0.3.0"

	// UserNameKey is the only non-meal key the store is expected to hold.
	UserNameKey = "userName"

	// StreakLookbackDays caps how far back a streak scan may look.
	StreakLookbackDays = 365

	// DaysPerWeekWindow is the length of the rolling weekly window.
	DaysPerWeekWindow = 7

	// MealsPerDay is the number of tracked meal slots per day.
	MealsPerDay = 2

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "rotipani-"
	BackupFileSuffix = ".db"

	// Export constants
	ExportFilePrefix       = "rotipani-"
	ExportBackupFilePrefix = "rotipani-backup-"
	ClipboardRuleWidth     = 80

	// Cache constants
	DefaultCacheSizeMB = 1
	CacheTTL           = 10 * time.Minute
)

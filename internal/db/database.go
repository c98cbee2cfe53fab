package db

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *gorm.DB
}

type dbUsers struct {
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	Name   string `gorm:"not null;column:name"`
	Perm   int    `gorm:"not null;column:perm;default:0"` // 0:guest, 1:admin, 2:master
}

func (dbUsers) TableName() string {
	return "users"
}

type DbPermissions struct {
	Command           string `gorm:"primaryKey;column:command"`
	UserAllow         int    `gorm:"not null;column:user_allow"`           // 0:guest, 1:admin, 2:master
	SpecialUsers      string `gorm:"column:special_users"`                 // CSV
	IsWhitelistUsers  int    `gorm:"column:is_users_whitelist;default:0"`  // 0:blacklist, 1:whitelist
	SpecialGroups     string `gorm:"column:special_groups"`                // CSV
	IsWhitelistGroups int    `gorm:"column:is_groups_whitelist;default:0"` // 0:blacklist, 1:whitelist
}

func (DbPermissions) TableName() string {
	return "permissions"
}

func (p *DbPermissions) ParseSpecialUsers() []uint64 {
	return ParseIDList(p.SpecialUsers)
}

func (p *DbPermissions) ParseSpecialGroups() []uint64 {
	return ParseIDList(p.SpecialGroups)
}

type RconConfig struct {
	GroupID  uint64 `gorm:"primaryKey;column:group_id"`
	Address  string `gorm:"not null;column:address"`
	Password string `gorm:"not null;column:password"`
	Enabled  bool   `gorm:"not null;column:enabled;default:false"`
}

func (RconConfig) TableName() string {
	return "rcon_configs"
}

// logOutput receives gorm warnings and errors.
var logOutput io.Writer = os.Stdout

// newLogger keeps gorm quiet about misses; unknown users and unlinked groups
// are looked up on every message.
func newLogger() logger.Interface {
	return logger.New(log.New(logOutput, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  true,
	})
}

// Open connects with the given driver and migrates the schema. For sqlite
// dsn is a file path or ":memory:"; for postgres it is a libpq DSN.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		if dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		dialector = &sqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: newLogger()})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver == "sqlite" {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		// every :memory: connection is a separate database
		sqlDB.SetMaxOpenConns(1)
	}

	if err := gdb.AutoMigrate(&dbUsers{}, &DbPermissions{}, &RconConfig{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: gdb}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveUser records the latest display name of a user, keeping its perm.
func (s *Store) SaveUser(userID uint64, name string) error {
	user := dbUsers{UserID: userID, Name: name}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&user).Error
}

func (s *Store) GetUserPerm(userID uint64) int {
	var user dbUsers
	if err := s.db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return 0 // default guest
	}
	return user.Perm
}

func (s *Store) UpdateUserPerm(userID uint64, perm int) error {
	user := dbUsers{UserID: userID, Perm: perm}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"perm"}),
	}).Create(&user).Error
}

func commandKey(cmd string) string {
	if !strings.HasPrefix(cmd, "cmd_") {
		return "cmd_" + cmd
	}
	return cmd
}

func (s *Store) GetCommandPermission(cmd string) *DbPermissions {
	var perm DbPermissions
	if err := s.db.Where("command = ?", commandKey(cmd)).First(&perm).Error; err != nil {
		return nil
	}
	return &perm
}

func (s *Store) SaveCommandPermission(perm *DbPermissions) error {
	perm.Command = commandKey(perm.Command)
	return s.db.Save(perm).Error
}

var ErrNoRconConfig = errors.New("rcon not configured")

func (s *Store) GetRconConfig(groupID uint64) (*RconConfig, error) {
	var cfg RconConfig
	err := s.db.Where("group_id = ?", groupID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoRconConfig
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetRconAddress stores the server of a group. New bindings start enabled.
func (s *Store) SetRconAddress(groupID uint64, address, password string) error {
	cfg := RconConfig{GroupID: groupID, Address: address, Password: password, Enabled: true}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"address", "password"}),
	}).Create(&cfg).Error
}

func (s *Store) SetRconEnabled(groupID uint64, enabled bool) error {
	result := s.db.Model(&RconConfig{}).Where("group_id = ?", groupID).Update("enabled", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoRconConfig
	}
	return nil
}

func ParseIDList(s string) []uint64 {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	res := make([]uint64, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if val, err := strconv.ParseUint(part, 10, 64); err == nil {
			res = append(res, val)
		}
	}
	return res
}

func JoinIDList(ids []uint64) string {
	if len(ids) == 0 {
		return ""
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = strconv.FormatUint(id, 10)
	}
	return strings.Join(strs, ",")
}

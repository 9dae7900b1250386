package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fengzhu0601/pixelgrid/config"
	"github.com/fengzhu0601/pixelgrid/grid"
	"github.com/fengzhu0601/pixelgrid/logger"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlog "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var ErrNotFound = errors.New("store: canvas not found")

const defaultSqlitePath = "pixelgrid.db"

// Snapshot 画布的完整持久化状态
type Snapshot struct {
	Width   uint32
	Height  uint32
	Created grid.Instant
	Cells   []grid.Cell
}

// Store 画布的持久化层，整张画布整体读写
type Store struct {
	dbCon           *gorm.DB
	dbConfig        *config.DBConfig
	maxPlaceholders int
}

func Open(dbConfig *config.DBConfig) (*Store, error) {
	s := &Store{dbConfig: dbConfig}
	if err := s.initDB(); err != nil {
		return nil, err
	}
	err := s.dbCon.Migrator().AutoMigrate(&CanvasMeta{}, &CanvasPixel{}, &ClaimEvent{})
	if err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

// 数据库连接初始化
func (s *Store) initDB() error {
	dbCfg := s.dbConfig
	var dialector gorm.Dialector
	switch dbCfg.Dialect {
	case "mysql":
		dbArgs := dbCfg.DSN
		if dbArgs == "" {
			dbArgs = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=true",
				dbCfg.DBUser, dbCfg.DBPass, dbCfg.DBHost, dbCfg.DBPort, dbCfg.DBName, dbCfg.DBEncode)
		}
		dialector = mysql.Open(dbArgs)
		s.maxPlaceholders = mysqlPlaceholders
	case "sqlite", "":
		path := dbCfg.DSN
		if path == "" {
			path = defaultSqlitePath
		}
		dialector = sqlite.Open(path)
		s.maxPlaceholders = sqlitePlaceholders
	default:
		return fmt.Errorf("store: unsupported dialect %q", dbCfg.Dialect)
	}

	namingStrategy := schema.NamingStrategy{
		SingularTable: true,
	}
	d, err := gorm.Open(dialector, &gorm.Config{
		NamingStrategy:         namingStrategy,
		SkipDefaultTransaction: true,
		Logger: gormlog.New(
			Writer{},
			gormlog.Config{
				SlowThreshold:             500 * time.Millisecond,
				LogLevel:                  gormlog.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return fmt.Errorf("store: open %s: %w", dbCfg.Dialect, err)
	}
	sqlDB, err := d.DB()
	if err != nil {
		return err
	}
	if dbCfg.Dialect == "mysql" {
		if dbCfg.DBPool_size > 0 {
			sqlDB.SetMaxOpenConns(dbCfg.DBPool_size)
		}
	} else {
		// sqlite 单写者，":memory:" 下每个连接是独立的库
		sqlDB.SetMaxOpenConns(1)
	}
	s.dbCon = d
	return nil
}

// 单次操作的超时
func (s *Store) timeout() time.Duration {
	if s.dbConfig.DBTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.dbConfig.DBTimeout) * time.Second
}

func (s *Store) Close() error {
	sqlDB, err := s.dbCon.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Load 读取整张画布，不存在时返回 ErrNotFound
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()
	db := s.dbCon.WithContext(ctx)

	var meta CanvasMeta
	err := db.Where("id = ?", metaID).Take(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: load meta: %w", err)
	}

	var pixels []*CanvasPixel
	if err := db.Order("idx").Find(&pixels).Error; err != nil {
		return nil, fmt.Errorf("store: load pixels: %w", err)
	}
	total := int(meta.Width) * int(meta.Height)
	if len(pixels) != total {
		return nil, fmt.Errorf("store: %d pixels for %dx%d: %w", len(pixels), meta.Width, meta.Height, grid.ErrCellCount)
	}
	cells := make([]grid.Cell, total)
	for i, p := range pixels {
		if int(p.Idx) != i || p.ExpiryMs < 0 {
			return nil, fmt.Errorf("store: bad pixel row idx=%d: %w", p.Idx, grid.ErrCellCount)
		}
		cells[i] = grid.Cell{Color: grid.Color{p.R, p.G, p.B}, Expiry: grid.Instant(p.ExpiryMs)}
	}
	return &Snapshot{
		Width:   meta.Width,
		Height:  meta.Height,
		Created: grid.Instant(meta.CreatedMs),
		Cells:   cells,
	}, nil
}

// Save 在一个事务内写入整张画布
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	total := int(snap.Width) * int(snap.Height)
	if len(snap.Cells) != total {
		return grid.ErrCellCount
	}
	meta := &CanvasMeta{ID: metaID, Width: snap.Width, Height: snap.Height, CreatedMs: toMillis(snap.Created)}
	pixels := make([]interface{}, total)
	for i, c := range snap.Cells {
		x, y, err := grid.Coord(i, snap.Width, snap.Height)
		if err != nil {
			return err
		}
		pixels[i] = &CanvasPixel{
			Idx:      uint32(i),
			X:        x,
			Y:        y,
			R:        c.Color[0],
			G:        c.Color[1],
			B:        c.Color[2],
			ExpiryMs: toMillis(c.Expiry),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()
	start := time.Now()
	err := s.dbCon.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bulkReplace(tx, "canvas_meta", []interface{}{meta}, s.maxPlaceholders); err != nil {
			return err
		}
		return bulkReplace(tx, "canvas_pixel", pixels, s.maxPlaceholders)
	})
	if err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	logger.Debug("store save", zap.Int("cells", total), zap.Duration("cost", time.Since(start)))
	return nil
}

// Instant 不会超过 MaxInstant，这里只做截断保护
func toMillis(i grid.Instant) int64 {
	if i > grid.MaxInstant {
		return int64(grid.MaxInstant)
	}
	return int64(i)
}

// 自定义writer，输出gorm警报到日志
type Writer struct {
}

func (w Writer) Printf(format string, args ...interface{}) {
	slowSql := fmt.Sprintf(format, args...)
	maxSize := 500
	if len(slowSql) > maxSize {
		slowSql = slowSql[0:maxSize]
	}
	logger.Error(slowSql)
}

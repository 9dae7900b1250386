package store

// 画布尺寸，只有一行(id=1)
type CanvasMeta struct {
	ID        uint32 `gorm:"column:id;primaryKey;autoIncrement:false"`
	Width     uint32 `gorm:"column:width"`
	Height    uint32 `gorm:"column:height"`
	CreatedMs int64  `gorm:"column:created_ms"`
}

// 单元数据，idx 为线性下标
type CanvasPixel struct {
	Idx      uint32 `gorm:"column:idx;primaryKey;autoIncrement:false"`
	X        uint32 `gorm:"column:x"`
	Y        uint32 `gorm:"column:y"`
	R        uint8  `gorm:"column:r"`
	G        uint8  `gorm:"column:g"`
	B        uint8  `gorm:"column:b"`
	ExpiryMs int64  `gorm:"column:expiry_ms"`
}

// 占用事件，只追加
type ClaimEvent struct {
	Seq      int64  `gorm:"column:seq;primaryKey;autoIncrement"`
	UUID     string `gorm:"column:uuid;size:36;uniqueIndex"`
	X        uint32 `gorm:"column:x"`
	Y        uint32 `gorm:"column:y"`
	Color    string `gorm:"column:color;size:7"`
	ExpiryMs int64  `gorm:"column:expiry_ms"`
	Payment  string `gorm:"column:payment;size:20"` // uint64 十进制，避免超出 BIGINT
	AtMs     int64  `gorm:"column:at_ms;index"`
}

const metaID = 1

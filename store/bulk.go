package store

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/fengzhu0601/pixelgrid/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	mysqlPlaceholders  = 65535 // mysql 单条语句最大占位符数量
	sqlitePlaceholders = 32766 // sqlite SQLITE_MAX_VARIABLE_NUMBER
	gormTag            = "gorm"
	columnPrefix       = "column:"
)

var columnRe = regexp.MustCompile(fmt.Sprintf("(?i)%s[a-z0-9_\\-]+", columnPrefix))

// bulkReplace 批量写入，按占位符上限分批
// "REPLACE INTO `canvas_pixel` (`idx`, `x`, ...) VALUES (?, ?, ...),(?, ?, ...);"
func bulkReplace(tx *gorm.DB, tableName string, rows []interface{}, maxPlaceholders int) error {
	if len(rows) == 0 {
		return nil
	}
	tableName = escapeSqlName(tableName)

	tags, aTags := getTags(reflect.TypeOf(rows[0]).Elem())
	escapeTags := make([]string, len(aTags))
	for i := range aTags {
		escapeTags[i] = escapeSqlName(aTags[i])
	}
	fields := strings.Join(escapeTags, ", ")

	batchSize := maxPlaceholders / len(aTags)
	if batchSize < 1 {
		batchSize = 1
	}
	placeholderStrs := "(?" + strings.Repeat(", ?", len(aTags)-1) + ")"

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		phStrs := make([]string, len(batch))
		for j := range batch {
			phStrs[j] = placeholderStrs
		}
		smt := fmt.Sprintf("REPLACE INTO %s (%s) VALUES %s", tableName, fields, strings.Join(phStrs, ","))
		if err := tx.Exec(smt, sliceValues(batch, tags, len(aTags))...).Error; err != nil {
			logger.Error("db replace error", zap.String("table", tableName), zap.Int("rows", len(batch)), zap.Error(err))
			return err
		}
	}
	return nil
}

// getTags 返回每个字段的列名(忽略的字段为空)和有效列名
func getTags(t reflect.Type) ([]string, []string) {
	tags := make([]string, t.NumField())
	for j := 0; j < t.NumField(); j++ {
		field := t.Field(j)
		tag := field.Tag.Get(gormTag)
		if tag == "-" {
			continue
		}
		tag = columnRe.FindString(tag)
		if strings.HasPrefix(tag, columnPrefix) {
			tag = strings.TrimPrefix(tag, columnPrefix)
		} else {
			tag = toSnakeCase(field.Name)
		}
		tags[j] = tag
	}

	availableTags := []string{}
	for i := range tags {
		if tags[i] != "" {
			availableTags = append(availableTags, tags[i])
		}
	}
	return tags, availableTags
}

func sliceValues(objs []interface{}, tags []string, width int) []interface{} {
	availableValues := make([]interface{}, 0, len(objs)*width)
	for i := range objs {
		v := reflect.ValueOf(objs[i]).Elem()
		for j := 0; j < v.NumField(); j++ {
			if tags[j] != "" {
				availableValues = append(availableValues, v.Field(j).Interface())
			}
		}
	}
	return availableValues
}

func escapeSqlName(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func toSnakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

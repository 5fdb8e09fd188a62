// Package schemas хранит JSON-схемы событий, которые сервис публикует в брокер
package schemas

import "embed"

//go:embed events
var SchemasFS embed.FS

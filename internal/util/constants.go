package util

// ExportFormat 导出文件名中的时间格式
const ExportFormat = "20060102-150405"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	StoreRedis  = "redis"
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

const MimeCSV = "text/csv; charset=utf-8"

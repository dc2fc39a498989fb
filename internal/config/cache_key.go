package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentSessionKey returns the cache key holding a student's active
// session token ID.
func (r *CacheKeyStruct) StudentSessionKey(studentID string) string {
	return fmt.Sprintf("session:student:%s", studentID)
}

// StaffSessionKey returns the cache key holding a staff member's active
// session token ID.
func (r *CacheKeyStruct) StaffSessionKey(staffID string) string {
	return fmt.Sprintf("session:staff:%s", staffID)
}

// CacheKey is the shared cache key builder.
var CacheKey = NewCacheKeyStruct()

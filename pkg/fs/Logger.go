// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

type Logger interface {
	Debug(msg string, fields ...map[string]interface{}) error
	Info(msg string, fields ...map[string]interface{}) error
	Warn(msg string, fields ...map[string]interface{}) error
	Error(msg string, fields ...map[string]interface{}) error
}

// Package middleware 提供 gin 的中間件：JWT 身份驗證與請求 ID。
package middleware

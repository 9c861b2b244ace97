// Package api 設定 HTTP 路由。
//
// handlers 子包負責把 HTTP 請求轉成服務層呼叫，並把服務層的錯誤轉成狀態碼；
// 遊戲規則全部在 internal/game 中，這一層不做任何判斷。
package api

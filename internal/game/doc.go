// Package game 實作狼人殺的回合引擎。
//
// 這個包不做任何 I/O：角色分配、夜晚行動分派、狼人計票、守護判定、
// 白天處決與勝負判斷都在記憶體中的 Session 上完成，持久化由 repository 負責。
package game

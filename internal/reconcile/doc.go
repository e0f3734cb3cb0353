// Package reconcile 把 Agent 流式输出的累积文本整理成可展示的结构化结果。
//
// 模型输出格式没有任何保证：JSON 可能被截断、被散文包裹，或者干脆不存在。
// 这里的所有函数都是输入文本的纯函数，不会 panic；最坏情况下返回原始文本视图。
package reconcile

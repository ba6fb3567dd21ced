// Package leveled stores colon bitmaps partitioned by nesting level and
// answers range queries over them.
//
// Two stores implement List with identical query semantics:
//   - Array keeps the words in a heap []uint64
//   - Buffer keeps the words little-endian in a caller-provided byte buffer,
//     typically an off-heap buffer leased from bufpool or the index section of
//     an encoded record
//
// Level l, word w lives at word offset l*Words()+w in both stores.
package leveled

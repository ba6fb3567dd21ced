// Package level partitions colon positions by object nesting depth.
//
// Classify walks brace positions in document order with an explicit stack of
// open-brace offsets. When a closing brace matches, every still-unclaimed
// colon between the pair belongs to that object and is written to the level
// equal to the object's depth (0 = top-level body). Claimed colons are cleared
// from the working bitmap so enclosing objects do not claim them again.
//
// A closing brace with an empty stack is ignored and open braces that never
// close leave their colons unclaimed; neither case can underflow the stack.
package level

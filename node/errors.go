package node

import "errors"

var errMailboxFull = errors.New("node: mailbox outbox is full")

package localfs

import "github.com/voteosis/trustee/internal/board"

var _ board.Board = (*Board)(nil)

package analyze

import (
	"io"
	"os"

	"github.com/nxadm/tail"
	"github.com/taoky/elblog/pkg/fileiter"
)

const oneMiB = 1024 * 1024

// OpenTailIterator follows filename across rotations. Unless Whole is
// set, only the last MiB is read before following.
func (a *Analyzer) OpenTailIterator(filename string) (fileiter.Iterator, *tail.Tail, error) {
	var seekInfo *tail.SeekInfo
	skipFirst := false
	if a.Config.Whole {
		seekInfo = &tail.SeekInfo{
			Offset: 0,
			Whence: io.SeekStart,
		}
	} else {
		// Seeking past the start of a file smaller than 1 MiB fails, so
		// check the size first
		fileInfo, err := os.Stat(filename)
		if err != nil {
			return nil, nil, err
		}
		if fileInfo.Size() < oneMiB {
			seekInfo = &tail.SeekInfo{
				Offset: 0,
				Whence: io.SeekStart,
			}
		} else {
			seekInfo = &tail.SeekInfo{
				Offset: -oneMiB,
				Whence: io.SeekEnd,
			}
			skipFirst = true
		}
	}
	t, err := tail.TailFile(filename, tail.Config{
		Follow:        true,
		ReOpen:        true,
		Location:      seekInfo,
		CompleteLines: true,
		MustExist:     true,
		Logger:        tail.DiscardingLogger,
	})
	if err != nil {
		return nil, nil, err
	}
	iter := fileiter.NewWithTail(t)
	if skipFirst {
		// The first line after seeking is most likely partial
		if _, err := iter.Next(); err != nil {
			t.Cleanup()
			return nil, nil, err
		}
	}
	return iter, t, nil
}

// Package pairing validates two ordered file lists and turns them into
// indexed video/audio pairs with their numbered output paths.
package pairing

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// OutputExt is the container extension of every muxed output.
const OutputExt = ".mp4"

// PairCountMismatchError reports that the movie and sound directories hold a
// different number of files. No pair is processed when it is returned.
type PairCountMismatchError struct {
	Movies int
	Sounds int
}

func (e *PairCountMismatchError) Error() string {
	return fmt.Sprintf("movie files (%d) and sound files (%d) must be equal in number", e.Movies, e.Sounds)
}

// ErrorKind classifies the failure for run history.
func (e *PairCountMismatchError) ErrorKind() string { return "validation" }

// Dirs names the three batch directories.
type Dirs struct {
	Movie  string
	Sound  string
	Output string
}

// Pair is one unit of work: the video at Index is combined with the audio at
// the same Index and written to Output.
type Pair struct {
	Index  int
	Video  string
	Audio  string
	Output string
}

// Validate checks that both lists have the same length.
func Validate(movies, sounds []string) error {
	if len(movies) != len(sounds) {
		return &PairCountMismatchError{Movies: len(movies), Sounds: len(sounds)}
	}
	return nil
}

// OutputName returns the file name for the pair at index. Outputs are
// numbered from 1, so pair 0 writes 1.mp4.
func OutputName(index int) string {
	return strconv.Itoa(index+1) + OutputExt
}

// Plan validates the lists and builds one Pair per position.
func Plan(dirs Dirs, movies, sounds []string) ([]Pair, error) {
	if err := Validate(movies, sounds); err != nil {
		return nil, err
	}
	pairs := make([]Pair, len(movies))
	for i := range movies {
		pairs[i] = Pair{
			Index:  i,
			Video:  filepath.Join(dirs.Movie, movies[i]),
			Audio:  filepath.Join(dirs.Sound, sounds[i]),
			Output: filepath.Join(dirs.Output, OutputName(i)),
		}
	}
	return pairs, nil
}

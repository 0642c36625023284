package sections

import "github.com/hay-kot/plandiff/internal/core/linediff"

// Reconcile walks ops in order and turns them into sections. A Delete that is
// immediately followed by an Insert becomes one Modified section; every other
// op maps to a section of its own kind.
func Reconcile(ops []linediff.Op) *Set {
	var (
		out     []Section
		newLine = 1
		oldLine = 1
	)

	next := func() ID { return ID(len(out)) }

	for i := 0; i < len(ops); i++ {
		op := ops[i]
		n := linediff.CountLines(op.Text)

		switch op.Kind {
		case linediff.Equal:
			out = append(out, Section{
				ID:       next(),
				Kind:     KindContext,
				Text:     op.Text,
				NewStart: newLine,
				OldStart: oldLine,
			})
			newLine += n
			oldLine += n

		case linediff.Insert:
			out = append(out, Section{
				ID:       next(),
				Kind:     KindAdded,
				Text:     op.Text,
				NewStart: newLine,
			})
			newLine += n

		case linediff.Delete:
			if i+1 < len(ops) && ops[i+1].Kind == linediff.Insert {
				ins := ops[i+1]
				out = append(out, Section{
					ID:          next(),
					Kind:        KindModified,
					RemovedText: op.Text,
					AddedText:   ins.Text,
					NewStart:    newLine,
					OldStart:    oldLine,
				})
				newLine += linediff.CountLines(ins.Text)
				oldLine += n
				i++
				continue
			}

			out = append(out, Section{
				ID:       next(),
				Kind:     KindRemoved,
				Text:     op.Text,
				OldStart: oldLine,
			})
			oldLine += n
		}
	}

	return &Set{sections: out}
}

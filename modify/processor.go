// Package modify decides how an incoming record is written over what storage
// already holds: created, kept, deleted, replaced, patched with a partial
// document or three-way merged against the state the caller started from
package modify

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/xyzhub/treepatch"
)

var (
	// ErrExists is returned for IfExistsError when a record is stored
	ErrExists = errors.New("the record exists")
	// ErrNotExists is returned for IfNotExistsError when no record is stored
	ErrNotExists = errors.New("the record does not exist")
)

// Entry is one record to modify
type Entry struct {
	// ID identifies the record in logs & errors
	ID string
	// Input is the record as sent by the caller
	Input map[string]interface{}
	// Head is the latest stored state, nil if there is none
	Head map[string]interface{}
	// Base is the state the caller based its changes on, nil if unknown
	Base map[string]interface{}

	IfExists    IfExists
	IfNotExists IfNotExists
	// Resolution settles merge conflicts between Head (first) & Input (second)
	Resolution treepatch.ConflictResolution

	// Result is the state to store, set by Processor.Apply
	Result map[string]interface{}
	// Action is the write Result needs
	Action Action
	// Err holds the failure of a non transactional Process run
	Err error
}

// Processor applies IfExists & IfNotExists policies to entries
type Processor struct {
	log           logrus.FieldLogger
	diffOpts      []treepatch.DiffOption
	transactional bool
}

// ProcessorOption adjusts a Processor
type ProcessorOption func(p *Processor)

// WithLogger sets the logger, logrus' standard logger by default
func WithLogger(log logrus.FieldLogger) ProcessorOption {
	return func(p *Processor) {
		p.log = log
	}
}

// WithDiffOptions passes options to every diff the processor computes
func WithDiffOptions(opts ...treepatch.DiffOption) ProcessorOption {
	return func(p *Processor) {
		p.diffOpts = append(p.diffOpts, opts...)
	}
}

// WithTransactional makes Process stop at the first failing entry
func WithTransactional(transactional bool) ProcessorOption {
	return func(p *Processor) {
		p.transactional = transactional
	}
}

// NewProcessor creates a Processor
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process applies every entry. Transactional processors return the first
// error, others record it on the entry and carry on
func (p *Processor) Process(entries []*Entry) error {
	for _, e := range entries {
		if _, err := p.Apply(e); err != nil {
			if p.transactional {
				return fmt.Errorf("entry %q: %w", e.ID, err)
			}
			e.Err = err
			p.log.WithError(err).WithField("id", e.ID).Warn("modification failed")
		}
	}
	return nil
}

// Apply works out the Result & Action of a single entry
func (p *Processor) Apply(e *Entry) (Action, error) {
	log := p.log.WithFields(logrus.Fields{
		"id":          e.ID,
		"ifExists":    e.IfExists.String(),
		"ifNotExists": e.IfNotExists.String(),
	})

	if e.Head == nil {
		switch e.IfNotExists {
		case IfNotExistsRetain:
			return p.done(e, nil, ActionNone)
		case IfNotExistsCreate:
			return p.done(e, treepatch.CloneMap(e.Input), ActionCreate)
		case IfNotExistsError:
			return ActionNone, fmt.Errorf("%w: %s", ErrNotExists, e.ID)
		}
		return ActionNone, fmt.Errorf("invalid ifNotExists policy %s", e.IfNotExists)
	}

	switch e.IfExists {
	case IfExistsRetain:
		return p.done(e, e.Head, ActionNone)
	case IfExistsError:
		return ActionNone, fmt.Errorf("%w: %s", ErrExists, e.ID)
	case IfExistsDelete:
		return p.done(e, nil, ActionDelete)
	case IfExistsReplace:
		return p.changed(e, treepatch.CloneMap(e.Input))
	case IfExistsPatch:
		result, err := p.patch(e)
		if err != nil {
			log.WithError(err).Debug("patch failed")
			return ActionNone, err
		}
		return p.changed(e, result)
	case IfExistsMerge:
		result, err := p.merge(e, e.Input)
		if err != nil {
			log.WithError(err).Debug("merge failed")
			return ActionNone, err
		}
		return p.changed(e, result)
	}
	return ActionNone, fmt.Errorf("invalid ifExists policy %s", e.IfExists)
}

func (p *Processor) done(e *Entry, result map[string]interface{}, action Action) (Action, error) {
	e.Result = result
	e.Action = action
	return action, nil
}

// changed records result as an update unless it matches the head state
func (p *Processor) changed(e *Entry, result map[string]interface{}) (Action, error) {
	d, err := treepatch.Diff(e.Head, result, p.diffOpts...)
	if err != nil {
		return ActionNone, err
	}
	if d == nil {
		return p.done(e, e.Head, ActionNone)
	}
	return p.done(e, result, ActionUpdate)
}

// patch applies the input as a partial document to the base state (the head
// if there's no base), then merges the outcome with the head
func (p *Processor) patch(e *Entry) (map[string]interface{}, error) {
	base := e.Base
	if base == nil {
		base = e.Head
	}
	computed := treepatch.CloneMap(base)

	diff, err := treepatch.DiffOfPartialUpdate(computed, e.Input, true, p.diffOpts...)
	if err != nil {
		return nil, err
	}
	if diff == nil {
		return e.Head, nil
	}
	if err := treepatch.Patch(computed, diff); err != nil {
		return nil, err
	}
	return p.merge(e, computed)
}

// merge combines the changes base -> head and base -> input
func (p *Processor) merge(e *Entry, input map[string]interface{}) (map[string]interface{}, error) {
	if e.Base == nil {
		return treepatch.CloneMap(input), nil
	}

	baseToHead, err := treepatch.Diff(e.Base, e.Head, p.diffOpts...)
	if err != nil {
		return nil, err
	}
	if baseToHead == nil {
		return treepatch.CloneMap(input), nil
	}

	baseToInput, err := treepatch.Diff(e.Base, input, p.diffOpts...)
	if err != nil {
		return nil, err
	}
	if baseToInput == nil {
		return e.Head, nil
	}

	merged, err := treepatch.Merge(baseToHead, baseToInput, e.Resolution)
	if err != nil {
		return nil, err
	}

	result := treepatch.CloneMap(e.Base)
	if err := treepatch.Patch(result, merged); err != nil {
		return nil, err
	}
	return result, nil
}

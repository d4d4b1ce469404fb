package cli

import (
	"fmt"

	"github.com/ascend-app/ascend/internal/timer"
	"github.com/ascend-app/ascend/internal/utils"
	"github.com/ascend-app/ascend/internal/validation"
)

type StudyCmd struct {
	Start  StudyStartCmd  `cmd:"" help:"Open a study session."`
	Finish StudyFinishCmd `cmd:"" help:"Close a study session."`
	List   StudyListCmd   `cmd:"" help:"List study sessions."`
	Edit   StudyEditCmd   `cmd:"" help:"Edit a study session."`
	Delete StudyDeleteCmd `cmd:"" help:"Delete a study session."`
}

type StudyStartCmd struct {
	Subject string `arg:"" help:"What is being studied."`
	Task    string `help:"Specific task within the subject."`
	Tags    string `help:"Comma-separated tags."`
	Habit   string `help:"Habit to associate, defaults to the timer-linked habit."`
}

func (c *StudyStartCmd) Run(ctx *Context) error {
	_, engine, err := ctx.Open()
	if err != nil {
		return err
	}

	id, err := engine.AddStudySession(timer.StudySpec{
		Subject: c.Subject,
		Task:    c.Task,
		Tags:    parseTags(c.Tags),
		HabitID: c.Habit,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Started study session: %s\n", id)
	return nil
}

type StudyFinishCmd struct {
	ID    string `arg:"" help:"Study session ID."`
	Focus int    `help:"Focus rating 1-5."`
	Notes string `help:"Session notes."`
}

func (c *StudyFinishCmd) Run(ctx *Context) error {
	_, engine, err := ctx.Open()
	if err != nil {
		return err
	}

	if err := validation.ValidateFocusRating(c.Focus); err != nil {
		return err
	}

	if err := engine.CompleteStudySession(c.ID, c.Focus, c.Notes); err != nil {
		return err
	}
	fmt.Printf("Finished study session: %s\n", c.ID)
	return nil
}

type StudyListCmd struct{}

func (c *StudyListCmd) Run(ctx *Context) error {
	_, engine, err := ctx.Open()
	if err != nil {
		return err
	}

	sessions := engine.StudySessions()
	if len(sessions) == 0 {
		fmt.Println("No study sessions recorded.")
		return nil
	}

	for _, sess := range sessions {
		state := "open"
		if sess.EndTime != "" {
			state = utils.FormatCountdown(sess.Duration)
		}
		fmt.Printf("%s  %-20s  %s\n    id: %s\n",
			utils.DayKey(sess.StartTime), sess.Subject, state, sess.ID)
	}
	return nil
}

type StudyEditCmd struct {
	ID      string `arg:"" help:"Study session ID."`
	Subject string `help:"New subject."`
	Task    string `help:"New task."`
	Tags    string `help:"Comma-separated tags."`
	Habit   string `help:"Habit to associate."`
	Notes   string `help:"Session notes."`
}

func (c *StudyEditCmd) Run(ctx *Context) error {
	_, engine, err := ctx.Open()
	if err != nil {
		return err
	}

	spec := timer.StudySpec{
		Subject: c.Subject,
		Task:    c.Task,
		HabitID: c.Habit,
		Notes:   c.Notes,
	}
	if c.Tags != "" {
		spec.Tags = parseTags(c.Tags)
	}
	if err := engine.UpdateStudySession(c.ID, spec); err != nil {
		return err
	}
	fmt.Printf("Updated study session: %s\n", c.ID)
	return nil
}

type StudyDeleteCmd struct {
	ID string `arg:"" help:"Study session ID."`
}

func (c *StudyDeleteCmd) Run(ctx *Context) error {
	_, engine, err := ctx.Open()
	if err != nil {
		return err
	}

	if err := engine.DeleteStudySession(c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted study session: %s\n", c.ID)
	return nil
}

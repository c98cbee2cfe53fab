package cmds

import (
	"github.com/awfufu/rpsbot/internal/config"
	"github.com/awfufu/rpsbot/internal/rps"
	"github.com/awfufu/rpsbot/internal/text"
)

const rpsHelpMsg string = `Play rock-paper-scissors with the bot.
Usage: /rps <rock|paper|scissors>
Alias: /rockpaperscissors
Example: /rps rock`

// NewRpsCommand binds one literal sub-command per choice. Anything else is
// parsed as free text and rejected with the list of valid choices.
func NewRpsCommand(picker *rps.Picker) *Command {
	cmd := &Command{
		Name:        "rps",
		Aliases:     []string{"rockpaperscissors"},
		HelpMsg:     rpsHelpMsg,
		Permission:  config.Guest,
		MinArgs:     2,
		MaxArgs:     2,
		Subcommands: make(map[string]ExecFunc, len(rps.Choices())),
	}
	for _, choice := range rps.Choices() {
		cmd.Subcommands[choice.Token()] = rpsExecutor(picker, choice)
	}
	cmd.Exec = func(s Sender, req *Request) {
		choice, err := rps.ParseChoice(req.Args[1])
		if err != nil {
			s.Send(req.GroupID, text.Text(err.Error()).Colored(text.Red))
			return
		}
		rpsExecutor(picker, choice)(s, req)
	}
	return cmd
}

func rpsExecutor(picker *rps.Picker, choice rps.Choice) ExecFunc {
	return func(s Sender, req *Request) {
		s.Send(req.GroupID, renderRound(picker.Play(choice))...)
	}
}

func renderRound(r rps.Round) []text.Component {
	var verdict text.Component
	switch r.Outcome {
	case rps.Win:
		verdict = text.Text("You win!").Colored(text.Green)
	case rps.Lose:
		verdict = text.Text("You lose!").Colored(text.Red)
	default:
		verdict = text.Text("It's a tie!").Colored(text.Yellow)
	}
	return []text.Component{
		text.Text("You chose: ").AddText(r.Player.String()).Colored(text.Aqua),
		text.Text("I chose: ").AddText(r.Opponent.String()).Colored(text.Gold),
		verdict,
	}
}

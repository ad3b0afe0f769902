package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitMergeBaseSubcommandNameConstant = "merge-base"
	gitDiffSubcommandNameConstant      = "diff"
	gitLogSubcommandNameConstant       = "log"
	gitRevParseSubcommandNameConstant  = "rev-parse"
	gitShallowRepositoryFlagConstant   = "--is-shallow-repository"
	gitFetchSubcommandNameConstant     = "fetch"
	gitDeepenFlagPrefixConstant        = "--deepen="
	gitAddSubcommandNameConstant       = "add"
	gitCommitSubcommandNameConstant    = "commit"
	gitTagSubcommandNameConstant       = "tag"
	gitPathSeparatorArgumentConstant   = "--"
	gitCommitMessageFlagConstant       = "-m"
	gitDiffNameOnlyFlagConstant        = "--name-only"
)

const (
	gitMergeBaseStartTemplateConstant            = "Locating divergence point of %s in %s"
	gitMergeBaseSuccessTemplateConstant          = "Located divergence point of %s in %s"
	gitMergeBaseFailureTemplateConstant          = "Failed to locate divergence point of %s in %s (exit code %d%s)"
	gitMergeBaseExecutionFailureTemplateConstant = "Unable to locate divergence point of %s in %s: %s"
	gitDiffStartTemplateConstant                 = "Listing files changed since %s in %s"
	gitDiffSuccessTemplateConstant               = "Listed files changed since %s in %s"
	gitDiffFailureTemplateConstant               = "Failed to list files changed since %s in %s (exit code %d%s)"
	gitDiffExecutionFailureTemplateConstant      = "Unable to list files changed since %s in %s: %s"
	gitLogStartTemplateConstant                  = "Locating the commit that added %s in %s"
	gitLogSuccessTemplateConstant                = "Located the commit that added %s in %s"
	gitLogFailureTemplateConstant                = "Failed to locate the commit that added %s in %s (exit code %d%s)"
	gitLogExecutionFailureTemplateConstant       = "Unable to locate the commit that added %s in %s: %s"
	gitShallowStartTemplateConstant              = "Checking whether %s is a shallow clone"
	gitShallowSuccessTemplateConstant            = "Checked whether %s is a shallow clone"
	gitShallowFailureTemplateConstant            = "Failed to check whether %s is a shallow clone (exit code %d%s)"
	gitShallowExecutionFailureTemplateConstant   = "Unable to check whether %s is a shallow clone: %s"
	gitDeepenStartTemplateConstant               = "Deepening the history of %s"
	gitDeepenSuccessTemplateConstant             = "Deepened the history of %s"
	gitDeepenFailureTemplateConstant             = "Failed to deepen the history of %s (exit code %d%s)"
	gitDeepenExecutionFailureTemplateConstant    = "Unable to deepen the history of %s: %s"
	gitAddStartTemplateConstant                  = "Staging %s in %s"
	gitAddSuccessTemplateConstant                = "Staged %s in %s"
	gitAddFailureTemplateConstant                = "Failed to stage %s in %s (exit code %d%s)"
	gitAddExecutionFailureTemplateConstant       = "Unable to stage %s in %s: %s"
	gitCommitStartTemplateConstant               = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant             = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant             = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant    = "Unable to create commit in %s with message %q: %s"
	gitTagStartTemplateConstant                  = "Creating annotated tag %s in %s"
	gitTagSuccessTemplateConstant                = "Created annotated tag %s in %s"
	gitTagFailureTemplateConstant                = "Failed to create annotated tag %s in %s (exit code %d%s)"
	gitTagExecutionFailureTemplateConstant       = "Unable to create annotated tag %s in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitMergeBaseSubcommandNameConstant:
		reference := formatter.ensureValue(formatter.argumentAtIndex(command.Details.Arguments, 1))
		return formatter.describeByStage(command, result, failure, stage, stageTemplates{
			start:            gitMergeBaseStartTemplateConstant,
			success:          gitMergeBaseSuccessTemplateConstant,
			failure:          gitMergeBaseFailureTemplateConstant,
			executionFailure: gitMergeBaseExecutionFailureTemplateConstant,
		}, reference)
	case gitDiffSubcommandNameConstant:
		reference := formatter.ensureValue(formatter.extractFirstNonFlagArgument(command.Details.Arguments[1:]))
		return formatter.describeByStage(command, result, failure, stage, stageTemplates{
			start:            gitDiffStartTemplateConstant,
			success:          gitDiffSuccessTemplateConstant,
			failure:          gitDiffFailureTemplateConstant,
			executionFailure: gitDiffExecutionFailureTemplateConstant,
		}, reference)
	case gitLogSubcommandNameConstant:
		targetPath := formatter.ensureValue(formatter.extractPathAfterSeparator(command.Details.Arguments))
		return formatter.describeByStage(command, result, failure, stage, stageTemplates{
			start:            gitLogStartTemplateConstant,
			success:          gitLogSuccessTemplateConstant,
			failure:          gitLogFailureTemplateConstant,
			executionFailure: gitLogExecutionFailureTemplateConstant,
		}, targetPath)
	case gitRevParseSubcommandNameConstant:
		if containsArgument(command.Details.Arguments, gitShallowRepositoryFlagConstant) {
			return formatter.describeByStageWithoutSubject(command, result, failure, stage, stageTemplates{
				start:            gitShallowStartTemplateConstant,
				success:          gitShallowSuccessTemplateConstant,
				failure:          gitShallowFailureTemplateConstant,
				executionFailure: gitShallowExecutionFailureTemplateConstant,
			})
		}
		return formatter.buildGenericMessage(command, result, failure, stage)
	case gitFetchSubcommandNameConstant:
		if formatter.hasDeepenFlag(command.Details.Arguments) {
			return formatter.describeByStageWithoutSubject(command, result, failure, stage, stageTemplates{
				start:            gitDeepenStartTemplateConstant,
				success:          gitDeepenSuccessTemplateConstant,
				failure:          gitDeepenFailureTemplateConstant,
				executionFailure: gitDeepenExecutionFailureTemplateConstant,
			})
		}
		return formatter.buildGenericMessage(command, result, failure, stage)
	case gitAddSubcommandNameConstant:
		targetPath := formatter.ensureValue(formatter.extractFirstNonFlagArgument(command.Details.Arguments[1:]))
		return formatter.describeByStage(command, result, failure, stage, stageTemplates{
			start:            gitAddStartTemplateConstant,
			success:          gitAddSuccessTemplateConstant,
			failure:          gitAddFailureTemplateConstant,
			executionFailure: gitAddExecutionFailureTemplateConstant,
		}, targetPath)
	case gitCommitSubcommandNameConstant:
		return formatter.describeGitCommitMessage(command, result, failure, stage)
	case gitTagSubcommandNameConstant:
		tagName := formatter.ensureValue(formatter.extractFirstNonFlagArgument(command.Details.Arguments[1:]))
		return formatter.describeByStage(command, result, failure, stage, stageTemplates{
			start:            gitTagStartTemplateConstant,
			success:          gitTagSuccessTemplateConstant,
			failure:          gitTagFailureTemplateConstant,
			executionFailure: gitTagExecutionFailureTemplateConstant,
		}, tagName)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

func (formatter CommandMessageFormatter) describeByStage(command ShellCommand, result ExecutionResult, failure error, stage messageStage, templates stageTemplates, subject string) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subject, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subject, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, subject, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, subject, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeByStageWithoutSubject(command ShellCommand, result ExecutionResult, failure error, stage messageStage, templates stageTemplates) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCommitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	commitMessage := formatter.extractCommitMessage(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCommitStartTemplateConstant, workingDirectory, commitMessage)
	case messageStageSuccess:
		return fmt.Sprintf(gitCommitSuccessTemplateConstant, workingDirectory, commitMessage)
	case messageStageFailure:
		return fmt.Sprintf(gitCommitFailureTemplateConstant, workingDirectory, commitMessage, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCommitExecutionFailureTemplateConstant, workingDirectory, commitMessage, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := emptyStringConstant
	if len(strings.TrimSpace(command.Details.WorkingDirectory)) > 0 {
		workingDirectorySuffix = fmt.Sprintf(workingDirectorySuffixTemplateConstant, command.Details.WorkingDirectory)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedDirectory
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return emptyStringConstant
	}
	return strings.TrimSpace(arguments[index])
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmedValue
}

func (formatter CommandMessageFormatter) extractFirstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 || strings.HasPrefix(trimmedArgument, "-") {
			continue
		}
		return trimmedArgument
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractPathAfterSeparator(arguments []string) string {
	for argumentIndex, argument := range arguments {
		if strings.TrimSpace(argument) == gitPathSeparatorArgumentConstant && argumentIndex+1 < len(arguments) {
			return strings.TrimSpace(arguments[argumentIndex+1])
		}
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractCommitMessage(arguments []string) string {
	for argumentIndex, argument := range arguments {
		if strings.TrimSpace(argument) == gitCommitMessageFlagConstant && argumentIndex+1 < len(arguments) {
			return arguments[argumentIndex+1]
		}
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) hasDeepenFlag(arguments []string) bool {
	for _, argument := range arguments {
		if strings.HasPrefix(strings.TrimSpace(argument), gitDeepenFlagPrefixConstant) {
			return true
		}
	}
	return false
}

func containsArgument(arguments []string, expectedArgument string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == expectedArgument {
			return true
		}
	}
	return false
}

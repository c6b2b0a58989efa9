package node

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"perceptron/common"
	"perceptron/core/config"
	"perceptron/core/dataset"
	"perceptron/core/ml"
	"perceptron/core/msgbus"
)

// Report summarizes one training run.
type Report struct {
	RunID     string
	Samples   int
	Features  int
	Completed int // epochs actually run
	Requested int
	Stopped   bool // interrupted between epochs
	Weights   []float64
	Bias      float64
	Labels    [2]string
	Accuracy  float64 // on the training set
}

// TrainerNode runs one train or classify job described by a LocalConfig.
type TrainerNode struct {
	runID  string
	conf   *config.LocalConfig
	model  *ml.Perceptron
	msgBus msgbus.MessageBus
	log    common.Logger
}

func (n *TrainerNode) Init(c *config.LocalConfig) error {
	n.conf = c

	logConfig, err := c.LogConfig()
	if err != nil {
		return errors.WithMessage(err, "get log config err")
	}
	common.SetLogConfig(logConfig)

	n.runID = uuid.NewString()
	n.log = common.GetLoggerWithRunID(common.MODULE_TRAINER, n.runID)
	n.msgBus = msgbus.NewMessageBus(n.log)
	n.msgBus.Register(common.LocalTrainMsg, &progressReporter{log: n.log})

	n.model, err = ml.NewPerceptron(c.Train.LearningRate)
	if err != nil {
		return errors.WithMessage(err, "perceptron init err")
	}
	n.model.SetLogger(common.GetLoggerWithRunID(common.MODULE_PERCEPTRON, n.runID))
	n.model.SetEpochHook(func(s ml.EpochStats) {
		n.msgBus.Publish(n.runID, common.LocalTrainMsg_EpochDone,
			common.EpochEvent{Epoch: s.Epoch, Epochs: s.Epochs, Updates: s.Updates})
	})

	if c.Source != "" {
		n.log.Infof("config loaded from %s", c.Source)
	}
	return nil
}

func (n *TrainerNode) RunID() string {
	return n.runID
}

// Model exposes the perceptron, e.g. to seed weights before Train.
func (n *TrainerNode) Model() *ml.Perceptron {
	return n.model
}

func (n *TrainerNode) loadOptions() dataset.Options {
	return dataset.Options{HasHeader: n.conf.Data.HasHeader, Comma: n.conf.Comma()}
}

// Train loads the training file and trains the perceptron. An interrupt
// between epochs is not an error: the report has Stopped set.
func (n *TrainerNode) Train(ctx context.Context) (*Report, error) {
	if n.conf.Data.TrainPath == "" {
		return nil, errors.New("no training data, set data.train_path or --data")
	}
	ss, err := dataset.LoadFile(n.conf.Data.TrainPath, n.loadOptions())
	if err != nil {
		return nil, err
	}
	return n.TrainSamples(ctx, ss)
}

func (n *TrainerNode) TrainSamples(ctx context.Context, ss *ml.SampleSet) (*Report, error) {
	tc := n.conf.Train
	report := &Report{
		RunID:     n.runID,
		Samples:   ss.Len(),
		Features:  ss.FeatureCount(),
		Completed: tc.Epochs,
		Requested: tc.Epochs,
	}

	err := n.model.Train(ctx, ss.Samples(), tc.Epochs, tc.Reinitialize)
	var stop *ml.EarlyStopError
	switch {
	case errors.As(err, &stop):
		report.Stopped = true
		report.Completed = stop.Completed
		n.msgBus.Publish(n.runID, common.LocalTrainMsg_Stopped,
			common.FinishedEvent{Completed: stop.Completed, Requested: stop.Requested, Err: err})
	case err != nil:
		return nil, errors.WithMessage(err, "train")
	default:
		n.msgBus.Publish(n.runID, common.LocalTrainMsg_Finished,
			common.FinishedEvent{Completed: tc.Epochs, Requested: tc.Epochs})
	}

	if report.Weights, err = n.model.Weights(); err != nil {
		return nil, err
	}
	if report.Bias, err = n.model.Bias(); err != nil {
		return nil, err
	}
	if report.Labels, err = n.model.Labels(); err != nil {
		return nil, err
	}
	if report.Accuracy, err = Accuracy(n.model, ss); err != nil {
		return nil, err
	}
	return report, nil
}

// Classify trains, then writes every query row followed by its predicted
// label as CSV to w. Rows are written only once all of them were
// classified, so nothing is written when training was interrupted or a
// row cannot be classified.
func (n *TrainerNode) Classify(ctx context.Context, w io.Writer) (*Report, error) {
	if n.conf.Data.PredictPath == "" {
		return nil, errors.New("no query data, set data.predict_path or --query")
	}
	opts := n.loadOptions()
	opts.Unlabeled = true
	query, err := dataset.LoadFile(n.conf.Data.PredictPath, opts)
	if err != nil {
		return nil, err
	}

	report, err := n.Train(ctx)
	if err != nil {
		return nil, err
	}
	if report.Stopped {
		n.log.Warnf("training interrupted, %d query rows not classified", query.Len())
		return report, nil
	}

	records := make([][]string, 0, query.Len())
	for _, s := range query.Samples() {
		label, err := n.model.Predict(s)
		if err != nil {
			return nil, errors.WithMessagef(err, "classify %s", s)
		}
		features := s.Features()
		record := make([]string, 0, len(features)+1)
		for _, f := range features {
			record = append(record, strconv.FormatFloat(f, 'g', -1, 64))
		}
		records = append(records, append(record, label))
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.Comma
	if err := cw.WriteAll(records); err != nil {
		return nil, errors.Wrap(err, "write prediction")
	}
	n.log.Infof("classified %d query rows", query.Len())
	return report, nil
}

// Close delivers pending progress messages and flushes the loggers.
func (n *TrainerNode) Close() {
	if n.msgBus != nil {
		n.msgBus.Reset()
	}
	common.SyncLoggers()
}

// Accuracy is the fraction of samples in ss whose label p predicts.
func Accuracy(p *ml.Perceptron, ss *ml.SampleSet) (float64, error) {
	if ss.Len() == 0 {
		return 0, nil
	}
	correct := 0
	for _, s := range ss.Samples() {
		label, err := p.Predict(s)
		if err != nil {
			return 0, err
		}
		if label == s.Label() {
			correct++
		}
	}
	return float64(correct) / float64(ss.Len()), nil
}

type progressReporter struct {
	log common.Logger
}

func (r *progressReporter) HandleMsgFromMsgBus(msg *msgbus.BusMessage) error {
	switch ev := msg.Msg.(type) {
	case common.EpochEvent:
		r.log.Debugf("epoch %d/%d done, %d updates", ev.Epoch, ev.Epochs, ev.Updates)
	case common.FinishedEvent:
		if msg.MsgType == common.LocalTrainMsg_Stopped {
			r.log.Warnf("training stopped after %d of %d epochs", ev.Completed, ev.Requested)
		} else {
			r.log.Infof("training finished, %d epochs", ev.Completed)
		}
	default:
		return errors.Errorf("unexpected payload %T for msg[%d]", msg.Msg, msg.MsgType)
	}
	return nil
}

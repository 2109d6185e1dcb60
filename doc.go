// Package crfseg provides character-level sentence boundary detection.
//
// Text is labeled one character at a time: '0' for characters inside a
// sentence, '1' for separator characters between sentences. A sequence
// tagger (a linear-chain CRF by default) learns the labeling from
// ground-truth sentence lists; maximal runs of in-sentence characters are
// then reassembled into sentence strings.
//
// # Training
//
//	split, err := builder.Build(ctx, corpus)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = crfseg.Train(ctx, split.TrainFeatures, split.TrainLabels,
//	    "model.crfseg", crfseg.DefaultHyperparameters())
//
// # Inference
//
//	seg, err := crfseg.New("model.crfseg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer seg.Close()
//
//	sentences, err := seg.Segment(ctx, "привет. меня зовут аня.")
//
// The tagger is a pluggable collaborator: NewWithTagger accepts anything
// implementing tagger.Model, including the inference-only ONNX backend.
package crfseg

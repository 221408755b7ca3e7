/*
go-detpose provides post-processing and geometry routines for computer vision
models covering object detection and 2D/3D pose estimation.  It supplies the
numeric glue that sits between a model runtime and an application: box decoding
and per class Non-Maximum Suppression, scale aware image resizing, camera
projection, PnP pose solving, and root joint translation refinement by least
squares optimization.

The library performs no inference itself.  Raw output tensors from any model
runtime (ONNX Runtime, TFLite, RKNN, etc) are accepted as plain float32 slices
and converted into structured detection and pose results.

See example code and usage in the example subdirectory.
*/
package detpose
